package models

import (
	"context"
	"fmt"

	"github.com/robalyx/assigner/internal/database/dbretry"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ModeratorFilter narrows the eligible moderator query.
type ModeratorFilter struct {
	Include []int64 // Only these accounts when non-empty
	Exclude []int64 // Never these accounts
	Limit   int     // Maximum rows, 0 for no limit
}

// ModeratorModel handles database operations for moderator accounts.
type ModeratorModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewModerator creates a ModeratorModel instance.
func NewModerator(db *bun.DB, logger *zap.Logger) *ModeratorModel {
	return &ModeratorModel{
		db:     db,
		logger: logger.Named("db_moderator"),
	}
}

// ListEligible returns moderators passing the base predicate (moderator role,
// active, not suspended, not a zombie) narrowed by the filter. Rows come back
// ranked by reputation, highest first, with the account ID as tie-break.
func (r *ModeratorModel) ListEligible(ctx context.Context, filter ModeratorFilter) ([]*types.Moderator, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Moderator, error) {
		var moderators []*types.Moderator

		query := r.db.NewSelect().
			Model(&moderators).
			Where("is_moderator").
			Where("is_active").
			Where("NOT is_suspended").
			Where("NOT is_zombie").
			Order("reputation DESC", "id ASC")

		if len(filter.Include) > 0 {
			query = query.Where("id IN (?)", bun.In(filter.Include))
		}

		if len(filter.Exclude) > 0 {
			query = query.Where("id NOT IN (?)", bun.In(filter.Exclude))
		}

		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}

		if err := query.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to list eligible moderators: %w", err)
		}

		r.logger.Debug("Listed eligible moderators",
			zap.Int("included", len(filter.Include)),
			zap.Int("excluded", len(filter.Exclude)),
			zap.Int("found", len(moderators)))

		return moderators, nil
	})
}

// GetModerator retrieves a single account by ID regardless of eligibility.
func (r *ModeratorModel) GetModerator(ctx context.Context, id int64) (*types.Moderator, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Moderator, error) {
		moderator := new(types.Moderator)

		err := r.db.NewSelect().
			Model(moderator).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get moderator: %w (id=%d)", err, id)
		}

		return moderator, nil
	})
}

// BlockersOf returns which of the candidate accounts have blocked the target account.
func (r *ModeratorModel) BlockersOf(
	ctx context.Context, targetID int64, candidateIDs []int64,
) (map[int64]struct{}, error) {
	if len(candidateIDs) == 0 {
		return map[int64]struct{}{}, nil
	}

	return dbretry.Operation(ctx, func(ctx context.Context) (map[int64]struct{}, error) {
		var blocks []*types.AccountBlock

		err := r.db.NewSelect().
			Model(&blocks).
			Column("blocker_id").
			Where("blocked_id = ?", targetID).
			Where("blocker_id IN (?)", bun.In(candidateIDs)).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get blockers: %w (targetID=%d)", err, targetID)
		}

		result := make(map[int64]struct{}, len(blocks))
		for _, block := range blocks {
			result[block.BlockerID] = struct{}{}
		}

		return result, nil
	})
}

// SaveModerators creates or updates moderator accounts.
func (r *ModeratorModel) SaveModerators(ctx context.Context, moderators []*types.Moderator) error {
	if len(moderators) == 0 {
		return nil
	}

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(&moderators).
			On("CONFLICT (id) DO UPDATE").
			Set("is_moderator = EXCLUDED.is_moderator").
			Set("is_active = EXCLUDED.is_active").
			Set("is_suspended = EXCLUDED.is_suspended").
			Set("is_zombie = EXCLUDED.is_zombie").
			Set("is_management = EXCLUDED.is_management").
			Set("reputation = EXCLUDED.reputation").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save moderators: %w", err)
		}

		return nil
	})
}
