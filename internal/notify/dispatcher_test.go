package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var _ assign.Dispatcher = (*notify.Dispatcher)(nil)

func TestDispatcherEnqueuesAlerts(t *testing.T) {
	t.Parallel()

	queue, _ := setupQueue(t)
	dispatcher := notify.NewDispatcher(queue, 0, zap.NewNop())

	dispatcher.AssignmentCreated(t.Context(), assignment(1, 5))
	dispatcher.AdminAlert(t.Context(), "moderation assignment failed", errors.New("db down"))
	dispatcher.Wait()

	alerts, err := queue.Pop(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	kinds := []notify.Kind{alerts[0].Kind, alerts[1].Kind}
	assert.ElementsMatch(t, []notify.Kind{notify.KindAssignmentCreated, notify.KindAdminAlert}, kinds)

	for _, alert := range alerts {
		if alert.Kind == notify.KindAdminAlert {
			assert.Equal(t, "moderation assignment failed: db down", alert.Message)
		}
	}
}

func TestDispatcherOutlivesRequestContext(t *testing.T) {
	t.Parallel()

	queue, _ := setupQueue(t)
	dispatcher := notify.NewDispatcher(queue, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(t.Context())
	dispatcher.AssignmentCreated(ctx, assignment(3, 5))
	cancel()
	dispatcher.Wait()

	length, err := queue.Len(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)
}

func TestDispatcherSwallowsQueueFailures(t *testing.T) {
	t.Parallel()

	queue, mr := setupQueue(t)
	dispatcher := notify.NewDispatcher(queue, 0, zap.NewNop())

	mr.SetError("LOADING")
	t.Cleanup(func() { mr.SetError("") })

	assert.NotPanics(t, func() {
		dispatcher.AssignmentCreated(t.Context(), assignment(1, 5))
		dispatcher.Wait()
	})
}
