package assign_test

import (
	"testing"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func excludedSet(ids ...int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestBuildRankedPoolBasePredicate(t *testing.T) {
	t.Parallel()

	suspended := moderator(2, 90)
	suspended.IsSuspended = true
	inactive := moderator(3, 80)
	inactive.IsActive = false
	zombie := moderator(4, 70)
	zombie.IsZombie = true
	notModerator := moderator(5, 60)
	notModerator.IsModerator = false

	candidates := newFakeCandidates(moderator(1, 10), suspended, inactive, zombie, notModerator, moderator(6, 50))
	builder := assign.NewPoolBuilder(candidates, 0, zap.NewNop())

	pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{Owner: 100})
	require.NoError(t, err)
	assert.False(t, pool.Direct)
	assert.Equal(t, []int64{6, 1}, ids(pool.Candidates))
}

func TestBuildRankedPoolRanking(t *testing.T) {
	t.Parallel()

	// Equal reputations are ordered by ascending ID
	candidates := newFakeCandidates(moderator(9, 30), moderator(3, 30), moderator(5, 50), moderator(1, 10))
	builder := assign.NewPoolBuilder(candidates, 0, zap.NewNop())

	pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{Owner: 100})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 3, 9, 1}, ids(pool.Candidates))
}

func TestBuildRankedPoolExcluded(t *testing.T) {
	t.Parallel()

	candidates := newFakeCandidates(moderator(1, 10), moderator(2, 20))
	builder := assign.NewPoolBuilder(candidates, 0, zap.NewNop())

	pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{
		Excluded: excludedSet(2),
		Owner:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(pool.Candidates))

	_, err = builder.BuildRankedPool(t.Context(), assign.PoolRequest{
		Excluded: excludedSet(1, 2),
		Owner:    100,
	})
	require.ErrorIs(t, err, assign.ErrNoCandidate)
}

func TestBuildRankedPoolSampleSize(t *testing.T) {
	t.Parallel()

	candidates := newFakeCandidates(moderator(1, 10), moderator(2, 20), moderator(3, 30))
	builder := assign.NewPoolBuilder(candidates, 2, zap.NewNop())

	pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{Owner: 100})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2}, ids(pool.Candidates))
}

func TestBuildRankedPoolBlocks(t *testing.T) {
	t.Parallel()

	candidates := newFakeCandidates(moderator(1, 90), moderator(2, 20))
	candidates.block(1, 100)
	// Blocks are directional: the owner blocking a moderator does not matter
	candidates.block(100, 2)

	builder := assign.NewPoolBuilder(candidates, 0, zap.NewNop())

	pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{Owner: 100})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(pool.Candidates))

	candidates.block(2, 100)

	_, err = builder.BuildRankedPool(t.Context(), assign.PoolRequest{Owner: 100})
	require.ErrorIs(t, err, assign.ErrNoCandidate)
}

func TestBuildRankedPoolPreferredOnly(t *testing.T) {
	t.Parallel()

	candidates := newFakeCandidates(moderator(1, 90), moderator(2, 20), moderator(3, 10))
	builder := assign.NewPoolBuilder(candidates, 0, zap.NewNop())

	t.Run("restricts to preferred", func(t *testing.T) {
		t.Parallel()

		pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{
			PreferredOnly: []int64{3, 2, 2},
			Owner:         100,
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3}, ids(pool.Candidates))
	})

	t.Run("falls back when preferred are unavailable", func(t *testing.T) {
		t.Parallel()

		pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{
			PreferredOnly: []int64{42},
			Owner:         100,
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, ids(pool.Candidates))
	})

	t.Run("falls back when preferred are excluded", func(t *testing.T) {
		t.Parallel()

		pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{
			Excluded:      excludedSet(3),
			PreferredOnly: []int64{3},
			Owner:         100,
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids(pool.Candidates))
	})
}

func TestBuildRankedPoolOnlyFrom(t *testing.T) {
	t.Parallel()

	t.Run("restricts without fallback", func(t *testing.T) {
		t.Parallel()

		candidates := newFakeCandidates(moderator(1, 90), moderator(2, 20))
		builder := assign.NewPoolBuilder(candidates, 0, zap.NewNop())

		_, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{
			OnlyFrom: []int64{42},
			Owner:    100,
		})
		require.ErrorIs(t, err, assign.ErrNoCandidate)

		_, err = builder.BuildRankedPool(t.Context(), assign.PoolRequest{
			Excluded: excludedSet(2),
			OnlyFrom: []int64{2},
			Owner:    100,
		})
		require.ErrorIs(t, err, assign.ErrNoCandidate)
	})

	t.Run("single candidate for management owner is direct", func(t *testing.T) {
		t.Parallel()

		owner := moderator(100, 0)
		owner.IsModerator = false
		owner.IsManagement = true

		candidates := newFakeCandidates(owner, moderator(1, 90), moderator(2, 20))
		builder := assign.NewPoolBuilder(candidates, 0, zap.NewNop())

		pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{
			Excluded: excludedSet(1),
			OnlyFrom: []int64{1, 2},
			Owner:    100,
		})
		require.NoError(t, err)
		assert.True(t, pool.Direct)
		assert.Equal(t, []int64{2}, ids(pool.Candidates))

		candidates.block(2, 100)

		_, err = builder.BuildRankedPool(t.Context(), assign.PoolRequest{
			Excluded: excludedSet(1),
			OnlyFrom: []int64{1, 2},
			Owner:    100,
		})
		require.ErrorIs(t, err, assign.ErrNoCandidate)
	})

	t.Run("single candidate for regular owner is ranked", func(t *testing.T) {
		t.Parallel()

		candidates := newFakeCandidates(moderator(1, 90), moderator(2, 20))
		builder := assign.NewPoolBuilder(candidates, 0, zap.NewNop())

		pool, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{
			OnlyFrom: []int64{2},
			Owner:    100,
		})
		require.NoError(t, err)
		assert.False(t, pool.Direct)
		assert.Equal(t, []int64{2}, ids(pool.Candidates))
	})
}

func TestBuildRankedPoolRepositoryError(t *testing.T) {
	t.Parallel()

	candidates := newFakeCandidates(moderator(1, 90))
	candidates.listErr = errDatabase
	builder := assign.NewPoolBuilder(candidates, 0, zap.NewNop())

	_, err := builder.BuildRankedPool(t.Context(), assign.PoolRequest{Owner: 100})
	require.ErrorIs(t, err, errDatabase)
	assert.NotErrorIs(t, err, assign.ErrNoCandidate)
}
