package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deppfellow/patternhub/internal/config"
	"github.com/deppfellow/patternhub/internal/database"
	"github.com/deppfellow/patternhub/internal/logger"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.NewLogger(cfg.Observability.GetLogLevel(), cfg.Observability.IsProduction())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := database.Migrate(ctx, &log, cfg); err != nil {
				return err
			}

			log.Info().Msg("migrations applied")
			return nil
		},
	}
}
