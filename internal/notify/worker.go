package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/robalyx/assigner/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Reporter receives progress updates from the worker.
type Reporter interface {
	UpdateStatus(task string)
	RecordDeliveries(delivered, failed int)
}

// WorkerOptions tunes batch draining and delivery retries.
type WorkerOptions struct {
	BatchSize     int
	PollInterval  time.Duration
	Concurrency   int
	MaxAttempts   uint64
	RetryInterval time.Duration
}

// DefaultWorkerOptions is used for any option left at zero.
var DefaultWorkerOptions = WorkerOptions{
	BatchSize:     50,
	PollInterval:  time.Second,
	Concurrency:   8,
	MaxAttempts:   5,
	RetryInterval: 500 * time.Millisecond,
}

// Worker drains the alert queue and delivers alerts through a Sender.
type Worker struct {
	queue    *Queue
	sender   Sender
	reporter Reporter
	opts     WorkerOptions
	logger   *zap.Logger
}

// NewWorker creates a worker. The reporter may be nil.
func NewWorker(queue *Queue, sender Sender, reporter Reporter, opts WorkerOptions, logger *zap.Logger) *Worker {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultWorkerOptions.BatchSize
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultWorkerOptions.PollInterval
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultWorkerOptions.Concurrency
	}

	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultWorkerOptions.MaxAttempts
	}

	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultWorkerOptions.RetryInterval
	}

	return &Worker{
		queue:    queue,
		sender:   sender,
		reporter: reporter,
		opts:     opts,
		logger:   logger.Named("notify_worker"),
	}
}

// Run processes batches until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Notify worker started",
		zap.Int("batchSize", w.opts.BatchSize),
		zap.Int("concurrency", w.opts.Concurrency))

	for {
		processed, err := w.ProcessBatch(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("Failed to process alert batch", zap.Error(err))
		}

		if processed > 0 && err == nil {
			continue
		}

		w.setStatus("Waiting for alerts")

		select {
		case <-ctx.Done():
			w.logger.Info("Notify worker stopped")
			return nil
		case <-time.After(w.opts.PollInterval):
		}
	}
}

// ProcessBatch delivers one batch of alerts and returns how many were taken
// from the queue. Alerts that exhaust their attempts go to the dead letter list.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	alerts, err := w.queue.Pop(ctx, w.opts.BatchSize)
	if err != nil {
		return 0, err
	}

	if len(alerts) == 0 {
		return 0, nil
	}

	w.setStatus("Delivering alerts")

	var delivered, failed atomic.Int64

	p := pool.New().WithMaxGoroutines(w.opts.Concurrency)

	for _, alert := range alerts {
		p.Go(func() {
			if err := w.deliver(ctx, alert); err != nil {
				failed.Add(1)
				alertsFailed.WithLabelValues(string(alert.Kind)).Inc()

				w.logger.Error("Failed to deliver alert",
					zap.String("kind", string(alert.Kind)),
					zap.Int64("assignmentID", alert.AssignmentID),
					zap.Error(err))

				if err := w.queue.PushDead(context.WithoutCancel(ctx), alert); err != nil {
					w.logger.Error("Failed to dead letter alert", zap.Error(err))
				}

				return
			}

			delivered.Add(1)
			alertsDelivered.WithLabelValues(string(alert.Kind)).Inc()
		})
	}

	p.Wait()

	if w.reporter != nil {
		w.reporter.RecordDeliveries(int(delivered.Load()), int(failed.Load()))
	}

	w.logger.Debug("Processed alert batch",
		zap.Int("total", len(alerts)),
		zap.Int64("delivered", delivered.Load()),
		zap.Int64("failed", failed.Load()))

	return len(alerts), nil
}

// deliver sends one alert, retrying with exponential backoff.
func (w *Worker) deliver(ctx context.Context, alert *Alert) error {
	return utils.WithRetry(ctx, func() error {
		return w.sender.Send(ctx, alert)
	}, utils.RetryOptions{
		MaxElapsedTime:  time.Minute,
		InitialInterval: w.opts.RetryInterval,
		MaxInterval:     10 * w.opts.RetryInterval,
		MaxRetries:      w.opts.MaxAttempts - 1,
	})
}

func (w *Worker) setStatus(task string) {
	if w.reporter != nil {
		w.reporter.UpdateStatus(task)
	}
}
