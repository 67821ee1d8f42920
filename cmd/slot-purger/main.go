package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/petopia/petopia-server/internal/app/api"
	"github.com/petopia/petopia-server/internal/domains/appointments/adapters/persistence/purge"
	platformobservability "github.com/petopia/petopia-server/internal/platform/observability"
)

var errNoDSN = errors.New("POSTGRES_DSN not set, cannot purge booked slots")

func main() {
	if err := run(context.Background(), os.Stdout); err != nil {
		log.Fatalf("slot purger: %v", err)
	}
}

func run(ctx context.Context, logOutput io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := platformobservability.NewLogger(logOutput, cfg.LogLevel)
	if cfg.PostgresDSN == "" {
		return errNoDSN
	}

	db, err := purge.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer db.Close()

	removed, err := purge.NewPurger(db).Purge(ctx, cfg.SlotRetentionDays)
	if err != nil {
		return fmt.Errorf("purge booked slots: %w", err)
	}
	logger.Info("booked slot purge completed",
		slog.Int64("removed", removed),
		slog.Int("retention_days", cfg.SlotRetentionDays))
	return nil
}
