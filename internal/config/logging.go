package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Apply configures the global logrus logger
func (l LogConfig) Apply() error {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	log.SetLevel(level)

	switch l.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
