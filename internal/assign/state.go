package assign

import (
	"time"

	"github.com/robalyx/assigner/internal/database/types"
)

// State is the moderation history state of a target.
//
//go:generate go tool enumer -type=State -trimprefix=State -transform=snake
type State int

const (
	// StateNoAssignment means the target was never sent to moderation.
	StateNoAssignment State = iota
	// StateOpenPending means a moderator is still reviewing the target.
	StateOpenPending
	// StateResolvedApproved means the latest review approved the target.
	StateResolvedApproved
	// StateResolvedRejected means the latest review rejected the target.
	StateResolvedRejected
	// StateStale means the latest review stayed pending past its threshold.
	StateStale
)

// Classify returns the state of a target given its latest assignment.
func Classify(latest *types.ModerationAssignment, now time.Time) State {
	switch {
	case latest == nil:
		return StateNoAssignment
	case !latest.Resolved && latest.IsStale(now):
		return StateStale
	case !latest.Resolved:
		return StateOpenPending
	case latest.IsApproved():
		return StateResolvedApproved
	default:
		return StateResolvedRejected
	}
}
