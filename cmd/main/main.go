package main

import (
	"os"

	"rideadmin/pricing/cmd/main/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
