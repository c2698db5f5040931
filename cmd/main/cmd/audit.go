package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rideadmin/pricing/internal/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	auditWorkers int
	auditMinIdle time.Duration
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the rule audit stream",
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print audit events as they arrive until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		minIdle := auditMinIdle
		if minIdle <= 0 {
			minIdle = app.Config.Redis.MinIdleTime
		}

		log.Infof("🚀 Tailing audit stream %s with %d workers", app.Config.Redis.Stream, auditWorkers)
		out := cmd.OutOrStdout()
		return app.Service.TailAudit(ctx, auditWorkers, minIdle, func(ctx context.Context, record service.AuditRecord) error {
			return printJSON(out, record)
		})
	},
}

func init() {
	auditTailCmd.Flags().IntVar(&auditWorkers, "workers", 1, "number of stream readers")
	auditTailCmd.Flags().DurationVar(&auditMinIdle, "min-idle", 0, "idle time before a pending event is reclaimed (default redis.min_idle_time)")

	auditCmd.AddCommand(auditTailCmd)
}
