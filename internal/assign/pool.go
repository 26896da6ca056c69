package assign

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/robalyx/assigner/internal/database/types"
	"go.uber.org/zap"
)

// DefaultSampleSize caps the working set of candidates per request.
const DefaultSampleSize = 100

// PoolRequest describes who may moderate a request.
type PoolRequest struct {
	Excluded      map[int64]struct{}
	PreferredOnly []int64 // Soft restriction, dropped if nobody matches
	OnlyFrom      []int64 // Hard restriction, never dropped
	Owner         int64   // Account the request originates from
}

// Pool is the outcome of pool building. Direct pools hold exactly one
// candidate that is assigned without rotation.
type Pool struct {
	Candidates []*types.Moderator
	Direct     bool
}

// PoolBuilder builds ranked candidate pools.
type PoolBuilder struct {
	candidates CandidateRepository
	sampleSize int
	logger     *zap.Logger
}

// NewPoolBuilder creates a PoolBuilder. A non-positive sample size uses DefaultSampleSize.
func NewPoolBuilder(candidates CandidateRepository, sampleSize int, logger *zap.Logger) *PoolBuilder {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	return &PoolBuilder{
		candidates: candidates,
		sampleSize: sampleSize,
		logger:     logger.Named("assign_pool"),
	}
}

// BuildRankedPool returns the candidates for a request ranked by reputation,
// highest first, with ties broken by ascending account ID.
func (b *PoolBuilder) BuildRankedPool(ctx context.Context, req PoolRequest) (*Pool, error) {
	excluded := sortedKeys(req.Excluded)

	var (
		include []int64
		soft    bool
	)

	switch {
	case len(req.OnlyFrom) > 0:
		include = withoutExcluded(req.OnlyFrom, req.Excluded)
		if len(include) == 0 {
			return nil, ErrNoCandidate
		}

	case len(req.PreferredOnly) > 0:
		include = withoutExcluded(req.PreferredOnly, req.Excluded)
		soft = true
	}

	var (
		candidates []*types.Moderator
		err        error
	)

	// An emptied preferred list falls straight through to the full pool
	if !soft || len(include) > 0 {
		candidates, err = b.candidates.ListEligible(ctx, CandidateQuery{
			Include: include,
			Exclude: excluded,
			Limit:   b.sampleSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list candidates: %w", err)
		}
	}

	candidates = dedupe(candidates)

	if len(req.OnlyFrom) > 0 && len(candidates) == 1 {
		pool, ok, err := b.directPool(ctx, candidates[0], req.Owner)
		if err != nil || ok {
			return pool, err
		}
	}

	if len(candidates) == 0 && soft {
		b.logger.Debug("No preferred moderator available, falling back to full pool",
			zap.Int64s("preferred", req.PreferredOnly))

		candidates, err = b.candidates.ListEligible(ctx, CandidateQuery{
			Exclude: excluded,
			Limit:   b.sampleSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list candidates: %w", err)
		}

		candidates = dedupe(candidates)
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidate
	}

	candidates, err = b.withoutBlockers(ctx, candidates, req.Owner)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidate
	}

	slices.SortStableFunc(candidates, func(x, y *types.Moderator) int {
		if c := cmp.Compare(y.Reputation, x.Reputation); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})

	return &Pool{Candidates: candidates}, nil
}

// directPool short-circuits a hard restriction that left a single candidate
// when the owner is an organisational account. It reports false when the
// regular flow should continue.
func (b *PoolBuilder) directPool(ctx context.Context, candidate *types.Moderator, owner int64) (*Pool, bool, error) {
	management, err := b.candidates.IsManagementAccount(ctx, owner)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check management account: %w", err)
	}

	if !management {
		return nil, false, nil
	}

	blockers, err := b.candidates.BlockersOf(ctx, owner, []int64{candidate.ID})
	if err != nil {
		return nil, false, fmt.Errorf("failed to check blocks: %w", err)
	}

	if _, blocked := blockers[candidate.ID]; blocked {
		return nil, false, ErrNoCandidate
	}

	return &Pool{Candidates: []*types.Moderator{candidate}, Direct: true}, true, nil
}

// withoutBlockers drops candidates who blocked the owner.
func (b *PoolBuilder) withoutBlockers(
	ctx context.Context, candidates []*types.Moderator, owner int64,
) ([]*types.Moderator, error) {
	ids := make([]int64, len(candidates))
	for i, candidate := range candidates {
		ids[i] = candidate.ID
	}

	blockers, err := b.candidates.BlockersOf(ctx, owner, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check blocks: %w", err)
	}

	if len(blockers) == 0 {
		return candidates, nil
	}

	filtered := make([]*types.Moderator, 0, len(candidates))
	for _, candidate := range candidates {
		if _, blocked := blockers[candidate.ID]; blocked {
			b.logger.Debug("Skipping moderator who blocked the owner",
				zap.Int64("moderatorID", candidate.ID),
				zap.Int64("ownerID", owner))
			continue
		}
		filtered = append(filtered, candidate)
	}

	return filtered, nil
}

// withoutExcluded returns ids minus excluded, deduplicated, in input order.
func withoutExcluded(ids []int64, excluded map[int64]struct{}) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))

	for _, id := range ids {
		if _, skip := excluded[id]; skip {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}

func dedupe(candidates []*types.Moderator) []*types.Moderator {
	seen := make(map[int64]struct{}, len(candidates))
	result := make([]*types.Moderator, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if _, dup := seen[candidate.ID]; dup {
			continue
		}
		seen[candidate.ID] = struct{}{}
		result = append(result, candidate)
	}

	return result
}

func sortedKeys(set map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(set))
	for id := range set {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}
