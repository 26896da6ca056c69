package assign

import (
	"context"

	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
)

// CandidateQuery narrows the eligible moderator listing.
type CandidateQuery struct {
	Include []int64 // Only these accounts when non-empty
	Exclude []int64 // Never these accounts
	Limit   int     // Maximum rows, 0 for no limit
}

// ManagementGroup is a private organisation and its member moderators.
type ManagementGroup struct {
	ID      int64
	Members []int64
}

// CandidateRepository is the query surface over moderator accounts.
type CandidateRepository interface {
	// ListEligible returns moderators passing the base predicate, narrowed by
	// the query and ordered by reputation descending then ID ascending.
	ListEligible(ctx context.Context, query CandidateQuery) ([]*types.Moderator, error)
	// GetModerator returns the account or nil if it does not exist.
	GetModerator(ctx context.Context, id int64) (*types.Moderator, error)
	// BlockersOf returns which of the candidates have blocked the target account.
	BlockersOf(ctx context.Context, targetID int64, candidateIDs []int64) (map[int64]struct{}, error)
	// IsManagementAccount reports whether the account is an organisational account.
	IsManagementAccount(ctx context.Context, id int64) (bool, error)
	// ManagementGroupOf returns the group owned by or containing the account, or nil.
	ManagementGroupOf(ctx context.Context, accountID int64) (*ManagementGroup, error)
}

// TargetRepository resolves moderation targets.
type TargetRepository interface {
	// LoadTarget returns the target or ErrTargetNotFound.
	LoadTarget(ctx context.Context, moderationType enum.ModerationType, id int64) (Target, error)
}

// AssignmentStore persists moderation assignments.
type AssignmentStore interface {
	// Latest returns the most recent assignment for a target or nil.
	Latest(ctx context.Context, moderationType enum.ModerationType, targetID int64) (*types.ModerationAssignment, error)
	// Get returns an assignment or ErrAssignmentNotFound.
	Get(ctx context.Context, id int64) (*types.ModerationAssignment, error)
	// Create inserts the assignment and sets its ID.
	Create(ctx context.Context, assignment *types.ModerationAssignment) error
	// Delete removes an assignment.
	Delete(ctx context.Context, id int64) error
	// SaveResolution persists the decision fields of an assignment.
	SaveResolution(ctx context.Context, assignment *types.ModerationAssignment) error
}

// Dispatcher hands alerts to the notification pipeline. Calls must not block
// on delivery and never report failures to the caller.
type Dispatcher interface {
	AssignmentCreated(ctx context.Context, assignment *types.ModerationAssignment)
	AdminAlert(ctx context.Context, subject string, err error)
}

// NopDispatcher drops every alert.
type NopDispatcher struct{}

func (NopDispatcher) AssignmentCreated(context.Context, *types.ModerationAssignment) {}
func (NopDispatcher) AdminAlert(context.Context, string, error)                      {}
