package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robalyx/assigner/internal/notify"
	"github.com/robalyx/assigner/internal/redis"
	"github.com/robalyx/assigner/internal/setup"
	"github.com/robalyx/assigner/internal/setup/telemetry"
	"github.com/robalyx/assigner/internal/worker/core"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"

	// NotifyWorker delivers queued moderation alerts.
	NotifyWorker = "notify"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "worker",
		Usage: "Start assigner workers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   1,
				Usage:   "Number of workers to start",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  NotifyWorker,
				Usage: "Start notification delivery workers",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runNotifyWorkers(ctx, c.Int("workers"))
				},
			},
		},
	}

	return app.Run(ctx, os.Args)
}

// runNotifyWorkers starts count notify workers sharing one queue.
func runNotifyWorkers(ctx context.Context, count int64) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, WorkerLogDir, NotifyWorker)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.WithoutCancel(ctx))

	cfg := app.Config.Worker

	if cfg.MetricsAddr != "" {
		metricsSrv, err := setup.StartMetricsServer(cfg.MetricsAddr, app.Logger)
		if err != nil {
			return err
		}
		defer metricsSrv.Shutdown(context.WithoutCancel(ctx)) //nolint:errcheck // best effort on exit
	}

	queueClient, err := app.RedisManager.GetClient(redis.NotificationDBIndex)
	if err != nil {
		return err
	}

	statusClient, err := app.RedisManager.GetClient(redis.WorkerStatusDBIndex)
	if err != nil {
		return err
	}

	if cfg.StartupDelay > 0 {
		app.Logger.Info("Delaying worker startup", zap.Int("seconds", cfg.StartupDelay))

		select {
		case <-time.After(time.Duration(cfg.StartupDelay) * time.Second):
		case <-ctx.Done():
			return nil
		}
	}

	queue := notify.NewQueue(queueClient, app.Logger)
	sender := notify.NewLogSender(app.Logger)
	opts := notify.WorkerOptions{
		BatchSize:    cfg.BatchSize,
		PollInterval: time.Duration(cfg.PollInterval) * time.Millisecond,
		Concurrency:  cfg.DeliveryConcurrency,
		MaxAttempts:  cfg.MaxDeliveryAttempts,
	}

	var g errgroup.Group

	for workerID := range count {
		g.Go(func() error {
			workerLogger := app.Logger.Named(fmt.Sprintf("%s_worker_%d", NotifyWorker, workerID))

			reporter := core.NewStatusReporter(statusClient, NotifyWorker, workerLogger)
			reporter.Start(ctx)
			defer reporter.Stop()

			w := notify.NewWorker(queue, sender, reporter, opts, workerLogger)
			runWorker(ctx, w, reporter, workerLogger)

			return nil
		})
	}

	log.Printf("Started %d %s workers", count, NotifyWorker)

	err = g.Wait()

	log.Println("All workers have finished. Exiting.")

	return err
}

// runWorker runs a single worker in a loop with panic recovery.
func runWorker(ctx context.Context, w *notify.Worker, reporter *core.StatusReporter, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Context cancelled, stopping worker")
			return
		default:
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					reporter.SetHealthy(false)
					logger.Error("Worker execution failed", zap.Any("panic", r))
				}
			}()

			reporter.SetHealthy(true)

			if err := w.Run(ctx); err != nil {
				logger.Error("Worker stopped with error", zap.Error(err))
			}
		}()

		if ctx.Err() != nil {
			return
		}

		logger.Info("Restarting worker in 5 seconds...")

		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return
		}
	}
}
