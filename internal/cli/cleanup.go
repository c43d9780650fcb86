package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"quiz-live-service/internal/config"
	pgstore "quiz-live-service/internal/infra/postgres"
)

const defaultRetention = 24 * time.Hour

// NewCleanupCmd removes participants that have been idle longer than the
// retention window. Meant to run from cron.
func NewCleanupCmd(configPath *string) *cobra.Command {
	var retention time.Duration
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete participants idle past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(cmd.Context(), *configPath, retention)
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", defaultRetention, "how long idle participants are kept")
	return cmd
}

func runCleanup(ctx context.Context, configPath string, retention time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := pgstore.NewParticipantStore(pool)
	deleted, err := store.DeleteInactiveBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return err
	}
	log.Printf("deleted %d inactive participants", deleted)
	return nil
}
