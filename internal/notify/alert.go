package notify

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
)

// Kind identifies what an alert reports.
type Kind string

const (
	// KindAssignmentCreated tells a moderator a request is waiting for them.
	KindAssignmentCreated Kind = "assignment_created"
	// KindAdminAlert reports an unexpected assignment failure to administrators.
	KindAdminAlert Kind = "admin_alert"
)

// Alert is one notification waiting for delivery.
type Alert struct {
	Kind         Kind                `json:"kind"`
	AssignmentID int64               `json:"assignmentId,omitempty"`
	ModeratorID  int64               `json:"moderatorId,omitempty"`
	Type         enum.ModerationType `json:"type"`
	TargetID     int64               `json:"targetId,omitempty"`
	Message      string              `json:"message"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// NewAssignmentAlert builds the alert sent to the moderator of a new assignment.
func NewAssignmentAlert(assignment *types.ModerationAssignment) *Alert {
	return &Alert{
		Kind:         KindAssignmentCreated,
		AssignmentID: assignment.ID,
		ModeratorID:  assignment.ModeratorID,
		Type:         assignment.Type,
		TargetID:     assignment.TargetID,
		Message:      assignment.RequestMessage,
		CreatedAt:    time.Now(),
	}
}

// NewAdminAlert builds an alert describing a failure.
func NewAdminAlert(subject string, err error) *Alert {
	message := subject
	if err != nil {
		message = fmt.Sprintf("%s: %v", subject, err)
	}

	return &Alert{
		Kind:      KindAdminAlert,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// encodeAlert serializes an alert for the queue.
func encodeAlert(alert *Alert) (string, error) {
	data, err := sonic.MarshalString(alert)
	if err != nil {
		return "", fmt.Errorf("failed to marshal alert: %w", err)
	}

	return data, nil
}

// decodeAlert parses a queued alert.
func decodeAlert(data string) (*Alert, error) {
	var alert Alert
	if err := sonic.UnmarshalString(data, &alert); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert: %w", err)
	}

	return &alert, nil
}
