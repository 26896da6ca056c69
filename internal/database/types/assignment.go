package types

import (
	"time"

	"github.com/robalyx/assigner/internal/database/types/enum"
)

// DefaultStaleDays is how long a pending assignment may stay unanswered
// before it becomes eligible for reassignment.
const DefaultStaleDays = 3

// ModerationAssignment is one moderation request handed to a moderator.
type ModerationAssignment struct {
	ID              int64                 `bun:",pk,autoincrement"`
	Type            enum.ModerationType   `bun:",notnull"`
	TargetID        int64                 `bun:",notnull"`
	ModeratorID     int64                 `bun:",notnull"`
	RequesterID     int64                 `bun:",notnull"`
	Status          enum.AssignmentStatus `bun:",notnull,default:0"`
	Resolved        bool                  `bun:",notnull,default:false"`
	StaleDays       int                   `bun:",notnull"`
	Internal        bool                  `bun:",notnull,default:false"`
	RequestMessage  string                `bun:",notnull,default:''"`
	ResponseMessage string                `bun:",notnull,default:''"`
	RequestedAt     time.Time             `bun:",notnull"`
	RespondedAt     *time.Time            `bun:",nullzero"`
}

// IsPending reports whether the moderator has not answered yet.
func (a *ModerationAssignment) IsPending() bool {
	return a.Status == enum.AssignmentStatusPending && !a.Resolved
}

// IsApproved reports whether the target was approved.
func (a *ModerationAssignment) IsApproved() bool {
	return a.Status == enum.AssignmentStatusApproved
}

// IsRejected reports whether the target was rejected.
func (a *ModerationAssignment) IsRejected() bool {
	return a.Status == enum.AssignmentStatusRejected
}

// IsStale reports whether the assignment has been pending for longer than
// its staleness threshold at the given time.
func (a *ModerationAssignment) IsStale(now time.Time) bool {
	if !a.IsPending() {
		return false
	}

	return now.After(a.RequestedAt.AddDate(0, 0, a.StaleDays))
}
