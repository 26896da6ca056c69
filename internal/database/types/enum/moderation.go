package enum

// ModerationType represents the kind of entity awaiting moderation.
//
//go:generate go tool enumer -type=ModerationType -trimprefix=ModerationType -transform=snake
type ModerationType int

const (
	// ModerationTypeProject is a regular community project.
	ModerationTypeProject ModerationType = iota
	// ModerationTypeCoreProject is a project maintained by the core team.
	ModerationTypeCoreProject
	// ModerationTypeCompetition is a competition run by a host account.
	ModerationTypeCompetition
	// ModerationTypeProfile is an account profile under review.
	ModerationTypeProfile
)

// AssignmentStatus represents the review decision of a moderation assignment.
//
//go:generate go tool enumer -type=AssignmentStatus -trimprefix=AssignmentStatus -transform=snake
type AssignmentStatus int

const (
	// AssignmentStatusPending means the moderator has not responded yet.
	AssignmentStatusPending AssignmentStatus = iota
	// AssignmentStatusApproved means the moderator approved the target.
	AssignmentStatusApproved
	// AssignmentStatusRejected means the moderator rejected the target.
	AssignmentStatusRejected
)
