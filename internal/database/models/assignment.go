package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/assigner/internal/database/dbretry"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AssignmentModel handles database operations for moderation assignments.
type AssignmentModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAssignment creates an AssignmentModel instance.
func NewAssignment(db *bun.DB, logger *zap.Logger) *AssignmentModel {
	return &AssignmentModel{
		db:     db,
		logger: logger.Named("db_assignment"),
	}
}

// GetLatest returns the most recent assignment for a target, or nil if the
// target was never sent to moderation.
func (r *AssignmentModel) GetLatest(
	ctx context.Context, moderationType enum.ModerationType, targetID int64,
) (*types.ModerationAssignment, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ModerationAssignment, error) {
		assignment := new(types.ModerationAssignment)

		err := r.db.NewSelect().
			Model(assignment).
			Where("type = ?", moderationType).
			Where("target_id = ?", targetID).
			Order("requested_at DESC", "id DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get latest assignment: %w (type=%s, targetID=%d)",
				err, moderationType, targetID)
		}

		return assignment, nil
	})
}

// GetAssignment retrieves an assignment by ID.
func (r *AssignmentModel) GetAssignment(ctx context.Context, id int64) (*types.ModerationAssignment, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ModerationAssignment, error) {
		assignment := new(types.ModerationAssignment)

		err := r.db.NewSelect().
			Model(assignment).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get assignment: %w (id=%d)", err, id)
		}

		return assignment, nil
	})
}

// CreateAssignment inserts a new assignment and fills in its ID.
func (r *AssignmentModel) CreateAssignment(ctx context.Context, assignment *types.ModerationAssignment) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(assignment).
			Returning("id").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w (type=%s, targetID=%d)",
				err, assignment.Type, assignment.TargetID)
		}

		r.logger.Debug("Created assignment",
			zap.Int64("id", assignment.ID),
			zap.Int64("moderatorID", assignment.ModeratorID))

		return nil
	})
}

// DeleteAssignment removes an assignment record.
func (r *AssignmentModel) DeleteAssignment(ctx context.Context, id int64) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewDelete().
			Model((*types.ModerationAssignment)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete assignment: %w (id=%d)", err, id)
		}

		return nil
	})
}

// SaveResolution stores the moderator's decision on an assignment.
func (r *AssignmentModel) SaveResolution(ctx context.Context, assignment *types.ModerationAssignment) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model(assignment).
			Column("status", "resolved", "response_message", "responded_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save resolution: %w (id=%d)", err, assignment.ID)
		}

		return nil
	})
}
