package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/repository/sqlconnect"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the ledger tables in DATABASE_URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Database.URL == "" {
			return errors.New("DATABASE_URL is not set")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, err := sqlconnect.ConnectDB(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		defer db.Close()

		if err := ledger.NewSQL(db).Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("ledger schema ready", zap.Int("audit_retention_days", cfg.Database.AuditRetentionDays))
		return nil
	},
}
