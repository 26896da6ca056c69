package assign

import (
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
)

// Target is an entity awaiting a moderator's decision.
type Target interface {
	Type() enum.ModerationType
	ID() int64
	// Owner is the account that created the target, or the profile itself.
	Owner() int64
	// ExclusionSet lists every account with a conflict of interest.
	ExclusionSet() map[int64]struct{}
}

var (
	_ Target = (*ProjectTarget)(nil)
	_ Target = (*CompetitionTarget)(nil)
	_ Target = (*ProfileTarget)(nil)
)

// ProjectTarget is a regular or core project.
type ProjectTarget struct {
	project *types.Project
	core    bool
}

// NewProjectTarget wraps a project row. Core selects the core project queue.
func NewProjectTarget(project *types.Project, core bool) *ProjectTarget {
	return &ProjectTarget{project: project, core: core}
}

func (t *ProjectTarget) Type() enum.ModerationType {
	if t.core {
		return enum.ModerationTypeCoreProject
	}
	return enum.ModerationTypeProject
}

func (t *ProjectTarget) ID() int64    { return t.project.ID }
func (t *ProjectTarget) Owner() int64 { return t.project.CreatorID }

func (t *ProjectTarget) ExclusionSet() map[int64]struct{} {
	return map[int64]struct{}{t.project.CreatorID: {}}
}

// CompetitionTarget is a competition with its judges and participants loaded.
type CompetitionTarget struct {
	competition *types.Competition
}

// NewCompetitionTarget wraps a competition row.
func NewCompetitionTarget(competition *types.Competition) *CompetitionTarget {
	return &CompetitionTarget{competition: competition}
}

func (t *CompetitionTarget) Type() enum.ModerationType { return enum.ModerationTypeCompetition }
func (t *CompetitionTarget) ID() int64                 { return t.competition.ID }
func (t *CompetitionTarget) Owner() int64              { return t.competition.CreatorID }

// ExclusionSet includes the host, every judge and every participant whether
// or not they confirmed.
func (t *CompetitionTarget) ExclusionSet() map[int64]struct{} {
	set := make(map[int64]struct{}, 1+len(t.competition.Judges)+len(t.competition.Participants))
	set[t.competition.CreatorID] = struct{}{}

	for _, judge := range t.competition.Judges {
		set[judge.AccountID] = struct{}{}
	}

	for _, participant := range t.competition.Participants {
		set[participant.AccountID] = struct{}{}
	}

	return set
}

// ProfileTarget is an account profile.
type ProfileTarget struct {
	profile *types.Profile
}

// NewProfileTarget wraps a profile row.
func NewProfileTarget(profile *types.Profile) *ProfileTarget {
	return &ProfileTarget{profile: profile}
}

func (t *ProfileTarget) Type() enum.ModerationType { return enum.ModerationTypeProfile }
func (t *ProfileTarget) ID() int64                 { return t.profile.ID }
func (t *ProfileTarget) Owner() int64              { return t.profile.ID }

func (t *ProfileTarget) ExclusionSet() map[int64]struct{} {
	return map[int64]struct{}{t.profile.ID: {}}
}
