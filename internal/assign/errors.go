package assign

import "errors"

var (
	// ErrIllegalModerationType indicates a target type outside the supported set.
	ErrIllegalModerationType = errors.New("illegal moderation type")
	// ErrNoCandidate indicates that no moderator is left after filtering.
	ErrNoCandidate = errors.New("no moderator candidate available")
	// ErrValidationFault indicates an explicitly chosen moderator failed validation.
	ErrValidationFault = errors.New("chosen moderator failed validation")
	// ErrTargetNotFound indicates the moderation target does not exist.
	ErrTargetNotFound = errors.New("moderation target not found")
	// ErrAssignmentNotFound indicates the assignment does not exist.
	ErrAssignmentNotFound = errors.New("moderation assignment not found")
	// ErrNotAssignedModerator indicates a moderator tried to resolve someone else's assignment.
	ErrNotAssignedModerator = errors.New("moderator is not assigned to this request")
	// ErrAlreadyResolved indicates the assignment already has a decision.
	ErrAlreadyResolved = errors.New("moderation assignment already resolved")
	// ErrAssignmentFailed is returned in place of unexpected internal failures.
	ErrAssignmentFailed = errors.New("failed to assign moderator")
)
