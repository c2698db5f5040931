package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Listing  ListingConfig  `mapstructure:"listing"`
}

// APIConfig holds admin API configuration
type APIConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	Token                string        `mapstructure:"token"`
	Timeout              time.Duration `mapstructure:"timeout"`
	RetryCount           int           `mapstructure:"retry_count"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
	Proxies              []string      `mapstructure:"proxies"`         // Egress proxies, tried in order
	ProxyCheckURL        string        `mapstructure:"proxy_check_url"` // Defaults to base_url
}

// DatabaseConfig holds the snapshot database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN builds the pgx connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Password      string        `mapstructure:"password"`
	Database      int           `mapstructure:"database"`
	Stream        string        `mapstructure:"stream"`
	ConsumerGroup string        `mapstructure:"consumer_group"`
	DraftTTL      time.Duration `mapstructure:"draft_ttl"`
	MinIdleTime   time.Duration `mapstructure:"min_idle_time"` // Before a pending audit event is reclaimed
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LogConfig holds logrus settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// ListingConfig holds rule list defaults
type ListingConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// Load reads config.yaml from the working directory, or path when given, with
// PRICING_* environment overrides. A missing default config file is not an
// error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000/api/admin")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.retry_count", 2)
	v.SetDefault("api.max_requests_per_second", 10)
	v.SetDefault("api.proxies", []string{})
	v.SetDefault("api.proxy_check_url", "")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "pricing")
	v.SetDefault("database.user", "pricing_user")
	v.SetDefault("database.password", "pricing_pass")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.stream", "pricing:stream:rules")
	v.SetDefault("redis.consumer_group", "pricing_audit")
	v.SetDefault("redis.draft_ttl", "24h")
	v.SetDefault("redis.min_idle_time", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("listing.page_size", 10)
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}
	if cfg.API.RetryCount < 0 {
		return fmt.Errorf("api.retry_count must not be negative, got %d", cfg.API.RetryCount)
	}
	if cfg.Listing.PageSize <= 0 {
		return fmt.Errorf("listing.page_size must be positive, got %d", cfg.Listing.PageSize)
	}
	if cfg.Redis.Enabled && cfg.Redis.DraftTTL <= 0 {
		return fmt.Errorf("redis.draft_ttl must be positive, got %v", cfg.Redis.DraftTTL)
	}
	if cfg.Redis.Enabled && cfg.Redis.MinIdleTime <= 0 {
		return fmt.Errorf("redis.min_idle_time must be positive, got %v", cfg.Redis.MinIdleTime)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}
	return nil
}
