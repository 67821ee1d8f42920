package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/petopia/petopia-server/internal/app/api"
	platformobservability "github.com/petopia/petopia-server/internal/platform/observability"
	platformpostgres "github.com/petopia/petopia-server/internal/platform/postgres"
	platformtemporal "github.com/petopia/petopia-server/internal/platform/temporal"
	orderactivities "github.com/petopia/petopia-server/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/petopia/petopia-server/internal/platform/temporal/workflows/orders"
)

const serviceName = "petopia-worker"

func main() {
	if err := run(context.Background(), worker.InterruptCh()); err != nil {
		log.Fatalf("petopia worker: %v", err)
	}
}

// run serves the notification task queue until interrupt fires. Deferred cleanups run before it returns.
func run(ctx context.Context, interrupt <-chan interface{}) error {
	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, platformpostgres.PoolConfig{MaxOpenConns: 5}, logger)
	defer closeDB()

	users, err := api.NewUserService(db, cfg, instruments)
	if err != nil {
		return fmt.Errorf("configure users: %w", err)
	}
	orderActivities := orderactivities.NewActivities(api.NewEmailNotifier(cfg, users, logger))

	temporalClient, err := platformtemporal.Dial(platformtemporal.Config{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments.Tracer("temporal-worker"), logger)
	if err != nil {
		return fmt.Errorf("create temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.NotificationsTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.CancellationNoticeWorkflow, workflow.RegisterOptions{Name: orderworkflows.CancellationNoticeWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.SendCancellationEmail, activity.RegisterOptions{Name: orderactivities.SendCancellationEmailActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.NotificationsTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(interrupt); err != nil {
		return fmt.Errorf("run temporal worker: %w", err)
	}
	logger.Info("Temporal worker stopped")
	return nil
}
