package assign_test

import (
	"testing"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownTarget struct{}

func (unknownTarget) Type() enum.ModerationType          { return enum.ModerationType(99) }
func (unknownTarget) ID() int64                          { return 1 }
func (unknownTarget) Owner() int64                       { return 1 }
func (unknownTarget) ExclusionSet() map[int64]struct{} { return nil }

func TestComputeExcludedIdentities(t *testing.T) {
	t.Parallel()

	competition := &types.Competition{
		ID:        7,
		CreatorID: 1,
		Judges:    []*types.CompetitionJudge{{CompetitionID: 7, AccountID: 10}},
		Participants: []*types.CompetitionParticipant{
			{CompetitionID: 7, AccountID: 20, Confirmed: true},
			{CompetitionID: 7, AccountID: 21, Confirmed: false},
		},
	}

	tests := []struct {
		name   string
		target assign.Target
		extra  []int64
		want   []int64
	}{
		{
			name:   "project excludes creator",
			target: assign.NewProjectTarget(&types.Project{ID: 1, CreatorID: 5}, false),
			want:   []int64{5},
		},
		{
			name:   "core project excludes creator",
			target: assign.NewProjectTarget(&types.Project{ID: 1, CreatorID: 5, IsCore: true}, true),
			want:   []int64{5},
		},
		{
			name:   "profile excludes itself",
			target: assign.NewProfileTarget(&types.Profile{ID: 9}),
			want:   []int64{9},
		},
		{
			name:   "competition excludes host judges and participants",
			target: assign.NewCompetitionTarget(competition),
			want:   []int64{1, 10, 20, 21},
		},
		{
			name:   "extra exclusions are merged",
			target: assign.NewProjectTarget(&types.Project{ID: 1, CreatorID: 5}, false),
			extra:  []int64{3, 5},
			want:   []int64{3, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			excluded, err := assign.ComputeExcludedIdentities(tt.target, tt.extra)
			require.NoError(t, err)

			got := make([]int64, 0, len(excluded))
			for id := range excluded {
				got = append(got, id)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestComputeExcludedIdentitiesIllegalType(t *testing.T) {
	t.Parallel()

	_, err := assign.ComputeExcludedIdentities(unknownTarget{}, nil)
	require.ErrorIs(t, err, assign.ErrIllegalModerationType)

	_, err = assign.ComputeExcludedIdentities(nil, nil)
	require.ErrorIs(t, err, assign.ErrIllegalModerationType)
}

func TestProjectTargetType(t *testing.T) {
	t.Parallel()

	project := &types.Project{ID: 3, CreatorID: 4}
	assert.Equal(t, enum.ModerationTypeProject, assign.NewProjectTarget(project, false).Type())
	assert.Equal(t, enum.ModerationTypeCoreProject, assign.NewProjectTarget(project, true).Type())
	assert.Equal(t, int64(4), assign.NewProjectTarget(project, true).Owner())
}
