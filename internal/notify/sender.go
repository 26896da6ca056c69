package notify

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers a single alert to its recipient.
type Sender interface {
	Send(ctx context.Context, alert *Alert) error
}

// LogSender delivers alerts as structured log entries.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a sender writing to the given logger.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger.Named("alerts")}
}

// Send logs the alert. Admin alerts are logged at warn level.
func (s *LogSender) Send(_ context.Context, alert *Alert) error {
	fields := []zap.Field{
		zap.String("kind", string(alert.Kind)),
		zap.String("message", alert.Message),
		zap.Time("createdAt", alert.CreatedAt),
	}

	if alert.Kind == KindAdminAlert {
		s.logger.Warn("Admin alert", fields...)
		return nil
	}

	s.logger.Info("Moderation request assigned", append(fields,
		zap.Int64("assignmentID", alert.AssignmentID),
		zap.Int64("moderatorID", alert.ModeratorID),
		zap.String("type", alert.Type.String()),
		zap.Int64("targetID", alert.TargetID),
	)...)

	return nil
}
