package cmd

import (
	"context"
	"encoding/json"
	"io"

	"rideadmin/pricing/internal/config"
	"rideadmin/pricing/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	logFormat  string

	app *container.Container
)

var rootCmd = &cobra.Command{
	Use:           "pricing-admin",
	Short:         "Pricing rule administration for the ride platform",
	Long:          `pricing-admin manages cab, driver, ride cost and wallet balance rules against the admin API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.Log.Format = logFormat
		}
		if err := cfg.Log.Apply(); err != nil {
			return err
		}
		log.Debug("Configuration loaded successfully")

		app, err = container.New(cmd.Context(), cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(ridesCmd)
	rootCmd.AddCommand(draftsCmd)
	rootCmd.AddCommand(auditCmd)
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
