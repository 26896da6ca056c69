package notify

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// AlertsKey is the Redis list holding pending alerts.
	AlertsKey = "notify:alerts"
	// DeadLetterKey is the Redis list holding alerts that exhausted their retries.
	DeadLetterKey = "notify:alerts:dead"
)

// Queue is a FIFO of alerts stored in a Redis list. Alerts are pushed on
// the left and popped from the right.
type Queue struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewQueue creates a queue on the given Redis client.
func NewQueue(client rueidis.Client, logger *zap.Logger) *Queue {
	return &Queue{
		client: client,
		logger: logger.Named("notify_queue"),
	}
}

// Push appends an alert to the queue.
func (q *Queue) Push(ctx context.Context, alert *Alert) error {
	return q.push(ctx, AlertsKey, alert)
}

// PushDead records an alert that could not be delivered.
func (q *Queue) PushDead(ctx context.Context, alert *Alert) error {
	return q.push(ctx, DeadLetterKey, alert)
}

// Pop removes up to limit alerts from the queue in arrival order.
// Entries that cannot be decoded are logged and dropped.
func (q *Queue) Pop(ctx context.Context, limit int) ([]*Alert, error) {
	if limit <= 0 {
		return nil, nil
	}

	cmds := make(rueidis.Commands, 0, limit)
	for range limit {
		cmds = append(cmds, q.client.B().Rpop().Key(AlertsKey).Build())
	}

	alerts := make([]*Alert, 0, limit)

	for _, resp := range q.client.DoMulti(ctx, cmds...) {
		data, err := resp.ToString()
		if rueidis.IsRedisNil(err) {
			break
		}

		if err != nil {
			return alerts, fmt.Errorf("failed to pop alert: %w", err)
		}

		alert, err := decodeAlert(data)
		if err != nil {
			q.logger.Warn("Dropping malformed alert", zap.String("data", data), zap.Error(err))
			continue
		}

		alerts = append(alerts, alert)
	}

	return alerts, nil
}

// Len returns the number of pending alerts.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.Do(ctx, q.client.B().Llen().Key(AlertsKey).Build()).AsInt64()
}

func (q *Queue) push(ctx context.Context, key string, alert *Alert) error {
	data, err := encodeAlert(alert)
	if err != nil {
		return err
	}

	if err := q.client.Do(ctx, q.client.B().Lpush().Key(key).Element(data).Build()).Error(); err != nil {
		return fmt.Errorf("failed to push alert: %w", err)
	}

	return nil
}
