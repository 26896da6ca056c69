package notify

import (
	"context"
	"sync"
	"time"

	"github.com/robalyx/assigner/internal/database/types"
	"go.uber.org/zap"
)

// DefaultEnqueueTimeout bounds how long a background enqueue may take.
const DefaultEnqueueTimeout = 5 * time.Second

// Dispatcher enqueues alerts without blocking the caller. Enqueue failures
// are logged and never reach the caller.
type Dispatcher struct {
	queue   *Queue
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher writing to the given queue.
func NewDispatcher(queue *Queue, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultEnqueueTimeout
	}

	return &Dispatcher{
		queue:   queue,
		timeout: timeout,
		logger:  logger.Named("notify_dispatcher"),
	}
}

// AssignmentCreated queues an alert for the assigned moderator.
func (d *Dispatcher) AssignmentCreated(ctx context.Context, assignment *types.ModerationAssignment) {
	d.enqueue(ctx, NewAssignmentAlert(assignment))
}

// AdminAlert queues a failure report for administrators.
func (d *Dispatcher) AdminAlert(ctx context.Context, subject string, err error) {
	d.enqueue(ctx, NewAdminAlert(subject, err))
}

// Wait blocks until every pending enqueue has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) enqueue(ctx context.Context, alert *Alert) {
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		// The request may finish before the alert is written
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.queue.Push(ctx, alert); err != nil {
			d.logger.Error("Failed to enqueue alert",
				zap.String("kind", string(alert.Kind)),
				zap.Int64("assignmentID", alert.AssignmentID),
				zap.Error(err))

			return
		}

		alertsEnqueued.WithLabelValues(string(alert.Kind)).Inc()
	}()
}
