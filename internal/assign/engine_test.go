package assign_test

import (
	"testing"
	"time"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
	"github.com/robalyx/assigner/internal/rotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectTarget(id, creator int64) assign.Target {
	return assign.NewProjectTarget(&types.Project{ID: id, CreatorID: creator}, false)
}

func projectRequest(id int64) assign.Request {
	return assign.Request{Type: enum.ModerationTypeProject, TargetID: id}
}

func TestRequestModerationCreatesAssignment(t *testing.T) {
	t.Parallel()

	f := setupEngine(t, newFakeCandidates(moderator(1, 50), moderator(2, 30)), projectTarget(10, 100))

	req := projectRequest(10)
	req.Message = "please review"

	assignment, err := f.engine.RequestModeration(t.Context(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), assignment.ModeratorID)
	assert.Equal(t, int64(100), assignment.RequesterID)
	assert.Equal(t, enum.AssignmentStatusPending, assignment.Status)
	assert.Equal(t, types.DefaultStaleDays, assignment.StaleDays)
	assert.Equal(t, "please review", assignment.RequestMessage)
	assert.False(t, assignment.Resolved)
	assert.Equal(t, []int64{assignment.ID}, f.dispatcher.created)
	assert.Equal(t, "1", f.store.values[rotation.IndexKey(rotation.GlobalKey)])
}

func TestRequestModerationSelfExclusion(t *testing.T) {
	t.Parallel()

	// The creator is the top-ranked moderator
	candidates := newFakeCandidates(moderator(100, 99), moderator(1, 50))
	f := setupEngine(t, candidates,
		projectTarget(10, 100),
		assign.NewProfileTarget(&types.Profile{ID: 1}))

	assignment, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), assignment.ModeratorID)

	assignment, err = f.engine.RequestModeration(t.Context(), assign.Request{
		Type:     enum.ModerationTypeProfile,
		TargetID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), assignment.ModeratorID)
}

func TestRequestModerationCompetitionExclusion(t *testing.T) {
	t.Parallel()

	const (
		judge       = 11
		participant = 12
		outsider    = 13
	)

	var targets []assign.Target
	for id := int64(1); id <= 5; id++ {
		targets = append(targets, assign.NewCompetitionTarget(&types.Competition{
			ID:           id,
			CreatorID:    100,
			Judges:       []*types.CompetitionJudge{{CompetitionID: id, AccountID: judge}},
			Participants: []*types.CompetitionParticipant{{CompetitionID: id, AccountID: participant}},
		}))
	}

	candidates := newFakeCandidates(moderator(judge, 90), moderator(participant, 80), moderator(outsider, 10))
	f := setupEngine(t, candidates, targets...)

	for id := int64(1); id <= 5; id++ {
		assignment, err := f.engine.RequestModeration(t.Context(), assign.Request{
			Type:     enum.ModerationTypeCompetition,
			TargetID: id,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(outsider), assignment.ModeratorID)
	}

	// Rotating away from the only outsider leaves nobody
	latest, err := f.assignments.Latest(t.Context(), enum.ModerationTypeCompetition, 1)
	require.NoError(t, err)

	_, err = f.engine.Resolve(t.Context(), latest.ID, outsider, true, "")
	require.NoError(t, err)

	_, err = f.engine.RequestModeration(t.Context(), assign.Request{
		Type:               enum.ModerationTypeCompetition,
		TargetID:           1,
		ReassignIfApproved: true,
	})
	require.ErrorIs(t, err, assign.ErrNoCandidate)
}

func TestRequestModerationRespectsBlocks(t *testing.T) {
	t.Parallel()

	candidates := newFakeCandidates(moderator(1, 99), moderator(2, 10))
	candidates.block(1, 100)

	f := setupEngine(t, candidates, projectTarget(10, 100))

	assignment, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), assignment.ModeratorID)
}

func TestRequestModerationReusesOpenAssignment(t *testing.T) {
	t.Parallel()

	f := setupEngine(t, newFakeCandidates(moderator(1, 50), moderator(2, 30)), projectTarget(10, 100))

	first, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
	require.NoError(t, err)

	second, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ModeratorID, second.ModeratorID)
	assert.Equal(t, 1, f.assignments.count())
	assert.Len(t, f.dispatcher.created, 1)
}

func TestRequestModerationStaleForcesReassignment(t *testing.T) {
	t.Parallel()

	f := setupEngine(t, newFakeCandidates(moderator(1, 50), moderator(2, 30)), projectTarget(10, 100))

	stale := f.seed(t, &types.ModerationAssignment{
		Type:        enum.ModerationTypeProject,
		TargetID:    10,
		ModeratorID: 1,
		RequesterID: 100,
		StaleDays:   2,
	}, time.Now().AddDate(0, 0, -3))

	assignment, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
	require.NoError(t, err)

	assert.NotEqual(t, stale.ID, assignment.ID)
	assert.Equal(t, int64(2), assignment.ModeratorID)
	assert.Equal(t, []int64{stale.ID}, f.assignments.deleted)
	assert.Equal(t, 1, f.assignments.count())
}

func TestRequestModerationPendingWithinThreshold(t *testing.T) {
	t.Parallel()

	f := setupEngine(t, newFakeCandidates(moderator(1, 50), moderator(2, 30)), projectTarget(10, 100))

	pending := f.seed(t, &types.ModerationAssignment{
		Type:        enum.ModerationTypeProject,
		TargetID:    10,
		ModeratorID: 1,
		RequesterID: 100,
		StaleDays:   5,
	}, time.Now().AddDate(0, 0, -3))

	req := projectRequest(10)
	req.ReassignIfRejected = true
	req.ReassignIfApproved = true

	assignment, err := f.engine.RequestModeration(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, assignment.ID)
	assert.Empty(t, f.assignments.deleted)
}

func TestRequestModerationResolvedReassignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   enum.AssignmentStatus
		request  func(*assign.Request)
		reassign bool
	}{
		{name: "rejected without flag", status: enum.AssignmentStatusRejected, request: func(*assign.Request) {}},
		{name: "rejected with flag", status: enum.AssignmentStatusRejected, request: func(r *assign.Request) {
			r.ReassignIfRejected = true
		}, reassign: true},
		{name: "rejected with approve flag", status: enum.AssignmentStatusRejected, request: func(r *assign.Request) {
			r.ReassignIfApproved = true
		}},
		{name: "approved without flag", status: enum.AssignmentStatusApproved, request: func(*assign.Request) {}},
		{name: "approved with flag", status: enum.AssignmentStatusApproved, request: func(r *assign.Request) {
			r.ReassignIfApproved = true
		}, reassign: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := setupEngine(t, newFakeCandidates(moderator(1, 50), moderator(2, 30)), projectTarget(10, 100))

			previous := f.seed(t, &types.ModerationAssignment{
				Type:        enum.ModerationTypeProject,
				TargetID:    10,
				ModeratorID: 1,
				RequesterID: 100,
				Status:      tt.status,
				Resolved:    true,
			}, time.Now().Add(-time.Hour))

			req := projectRequest(10)
			tt.request(&req)

			assignment, err := f.engine.RequestModeration(t.Context(), req)
			require.NoError(t, err)

			if !tt.reassign {
				assert.Equal(t, previous.ID, assignment.ID)
				assert.Empty(t, f.assignments.deleted)
				return
			}

			assert.NotEqual(t, previous.ID, assignment.ID)
			assert.Equal(t, int64(2), assignment.ModeratorID, "previous moderator must be rotated away from")
			assert.Equal(t, []int64{previous.ID}, f.assignments.deleted)
		})
	}
}

func TestRequestModerationChosenModerator(t *testing.T) {
	t.Parallel()

	suspended := moderator(3, 70)
	suspended.IsSuspended = true

	candidates := newFakeCandidates(moderator(1, 90), moderator(2, 10), suspended, moderator(4, 5), moderator(100, 1))
	candidates.block(4, 100)

	tests := []struct {
		name    string
		chosen  int64
		wantErr error
	}{
		{name: "valid choice bypasses ranking", chosen: 2},
		{name: "unknown account", chosen: 42, wantErr: assign.ErrValidationFault},
		{name: "suspended moderator", chosen: 3, wantErr: assign.ErrValidationFault},
		{name: "blocks the requester", chosen: 4, wantErr: assign.ErrValidationFault},
		{name: "owns the target", chosen: 100, wantErr: assign.ErrValidationFault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := setupEngine(t, candidates, projectTarget(10, 100))

			req := projectRequest(10)
			req.ChosenModerator = tt.chosen

			assignment, err := f.engine.RequestModeration(t.Context(), req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, assignment)
				assert.Zero(t, f.assignments.count())
				assert.Empty(t, f.store.values, "rotation must not advance")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.chosen, assignment.ModeratorID)
			assert.Empty(t, f.store.values)
		})
	}
}

func TestRequestModerationInternalGroup(t *testing.T) {
	t.Parallel()

	candidates := newFakeCandidates(moderator(1, 90), moderator(2, 50), moderator(3, 40))
	candidates.groups[100] = &assign.ManagementGroup{ID: 7, Members: []int64{2, 3}}

	f := setupEngine(t, candidates, projectTarget(10, 100), projectTarget(11, 100))

	req := projectRequest(10)
	req.Internal = true

	assignment, err := f.engine.RequestModeration(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), assignment.ModeratorID)
	assert.True(t, assignment.Internal)

	groupKey := rotation.GroupKey(7)
	assert.Equal(t, "1", f.store.values[rotation.IndexKey(groupKey)])
	assert.NotContains(t, f.store.values, rotation.IndexKey(rotation.GlobalKey))

	req = projectRequest(11)
	req.Internal = true

	assignment, err = f.engine.RequestModeration(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(3), assignment.ModeratorID)
}

func TestRequestModerationInternalOnlyFromLimitedToGroup(t *testing.T) {
	t.Parallel()

	t.Run("outsider is dropped", func(t *testing.T) {
		t.Parallel()

		candidates := newFakeCandidates(moderator(1, 90), moderator(2, 50), moderator(3, 40))
		candidates.groups[100] = &assign.ManagementGroup{ID: 7, Members: []int64{2, 3}}

		f := setupEngine(t, candidates, projectTarget(10, 100))

		req := projectRequest(10)
		req.Internal = true
		req.OnlyFrom = []int64{1, 3}

		assignment, err := f.engine.RequestModeration(t.Context(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(3), assignment.ModeratorID)
	})

	t.Run("only outsiders", func(t *testing.T) {
		t.Parallel()

		candidates := newFakeCandidates(moderator(1, 90), moderator(2, 50), moderator(3, 40))
		candidates.groups[100] = &assign.ManagementGroup{ID: 7, Members: []int64{2, 3}}

		f := setupEngine(t, candidates, projectTarget(10, 100))

		req := projectRequest(10)
		req.Internal = true
		req.OnlyFrom = []int64{1}

		assignment, err := f.engine.RequestModeration(t.Context(), req)
		require.ErrorIs(t, err, assign.ErrNoCandidate)
		assert.Nil(t, assignment)
		assert.Zero(t, f.assignments.count())
		assert.NotContains(t, f.store.values, rotation.IndexKey(rotation.GroupKey(7)))
	})
}

func TestRequestModerationInternalWithoutGroup(t *testing.T) {
	t.Parallel()

	f := setupEngine(t, newFakeCandidates(moderator(1, 90)), projectTarget(10, 100))

	req := projectRequest(10)
	req.Internal = true

	assignment, err := f.engine.RequestModeration(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), assignment.ModeratorID)
	assert.Equal(t, "1", f.store.values[rotation.IndexKey(rotation.GlobalKey)])
}

func TestRequestModerationInternalEmptyGroup(t *testing.T) {
	t.Parallel()

	candidates := newFakeCandidates(moderator(1, 90))
	candidates.groups[100] = &assign.ManagementGroup{ID: 7}

	f := setupEngine(t, candidates, projectTarget(10, 100))

	req := projectRequest(10)
	req.Internal = true

	_, err := f.engine.RequestModeration(t.Context(), req)
	require.ErrorIs(t, err, assign.ErrNoCandidate)
}

func TestRequestModerationErrors(t *testing.T) {
	t.Parallel()

	t.Run("no candidate", func(t *testing.T) {
		t.Parallel()

		f := setupEngine(t, newFakeCandidates(), projectTarget(10, 100))

		_, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
		require.ErrorIs(t, err, assign.ErrNoCandidate)
		assert.Zero(t, f.assignments.count())
		assert.Empty(t, f.dispatcher.alerts)
	})

	t.Run("illegal type", func(t *testing.T) {
		t.Parallel()

		f := setupEngine(t, newFakeCandidates(moderator(1, 10)), projectTarget(10, 100))

		_, err := f.engine.RequestModeration(t.Context(), assign.Request{
			Type:     enum.ModerationType(42),
			TargetID: 10,
		})
		require.ErrorIs(t, err, assign.ErrIllegalModerationType)
	})

	t.Run("missing target", func(t *testing.T) {
		t.Parallel()

		f := setupEngine(t, newFakeCandidates(moderator(1, 10)))

		_, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
		require.ErrorIs(t, err, assign.ErrTargetNotFound)
	})

	t.Run("unexpected failure is hidden", func(t *testing.T) {
		t.Parallel()

		candidates := newFakeCandidates(moderator(1, 10))
		candidates.listErr = errDatabase

		f := setupEngine(t, candidates, projectTarget(10, 100))

		_, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
		require.ErrorIs(t, err, assign.ErrAssignmentFailed)
		assert.NotErrorIs(t, err, errDatabase)
		assert.Len(t, f.dispatcher.alerts, 1)
	})

	t.Run("failed creation leaves previous assignment", func(t *testing.T) {
		t.Parallel()

		f := setupEngine(t, newFakeCandidates(moderator(1, 50), moderator(2, 30)), projectTarget(10, 100))

		stale := f.seed(t, &types.ModerationAssignment{
			Type:        enum.ModerationTypeProject,
			TargetID:    10,
			ModeratorID: 1,
			StaleDays:   1,
		}, time.Now().AddDate(0, 0, -2))

		f.assignments.createErr = errDatabase

		_, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
		require.ErrorIs(t, err, assign.ErrAssignmentFailed)
		assert.Empty(t, f.assignments.deleted)
		assert.Empty(t, f.dispatcher.created)

		latest, err := f.assignments.Latest(t.Context(), enum.ModerationTypeProject, 10)
		require.NoError(t, err)
		assert.Equal(t, stale.ID, latest.ID)
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	f := setupEngine(t, newFakeCandidates(moderator(1, 50)), projectTarget(10, 100))

	assignment, err := f.engine.RequestModeration(t.Context(), projectRequest(10))
	require.NoError(t, err)

	_, err = f.engine.Resolve(t.Context(), assignment.ID, 2, true, "")
	require.ErrorIs(t, err, assign.ErrNotAssignedModerator)

	resolved, err := f.engine.Resolve(t.Context(), assignment.ID, 1, false, "needs a licence")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	assert.Equal(t, enum.AssignmentStatusRejected, resolved.Status)
	assert.Equal(t, "needs a licence", resolved.ResponseMessage)
	require.NotNil(t, resolved.RespondedAt)

	_, err = f.engine.Resolve(t.Context(), assignment.ID, 1, true, "")
	require.ErrorIs(t, err, assign.ErrAlreadyResolved)

	_, err = f.engine.Resolve(t.Context(), 999, 1, true, "")
	require.ErrorIs(t, err, assign.ErrAssignmentNotFound)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	now := time.Now()

	pending := &types.ModerationAssignment{StaleDays: 3, RequestedAt: now.AddDate(0, 0, -1)}
	stale := &types.ModerationAssignment{StaleDays: 3, RequestedAt: now.AddDate(0, 0, -4)}
	approved := &types.ModerationAssignment{Status: enum.AssignmentStatusApproved, Resolved: true}
	rejected := &types.ModerationAssignment{Status: enum.AssignmentStatusRejected, Resolved: true}

	assert.Equal(t, assign.StateNoAssignment, assign.Classify(nil, now))
	assert.Equal(t, assign.StateOpenPending, assign.Classify(pending, now))
	assert.Equal(t, assign.StateStale, assign.Classify(stale, now))
	assert.Equal(t, assign.StateResolvedApproved, assign.Classify(approved, now))
	assert.Equal(t, assign.StateResolvedRejected, assign.Classify(rejected, now))
	assert.Equal(t, "resolved_approved", assign.StateResolvedApproved.String())
}
