package models

import (
	"context"
	"fmt"

	"github.com/robalyx/assigner/internal/database/dbretry"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// TargetModel handles database operations for entities awaiting moderation.
type TargetModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewTarget creates a TargetModel instance.
func NewTarget(db *bun.DB, logger *zap.Logger) *TargetModel {
	return &TargetModel{
		db:     db,
		logger: logger.Named("db_target"),
	}
}

// GetProject retrieves a project by ID.
func (r *TargetModel) GetProject(ctx context.Context, id int64) (*types.Project, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Project, error) {
		project := new(types.Project)

		err := r.db.NewSelect().
			Model(project).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get project: %w (id=%d)", err, id)
		}

		return project, nil
	})
}

// GetCompetition retrieves a competition with its judges and participants.
func (r *TargetModel) GetCompetition(ctx context.Context, id int64) (*types.Competition, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Competition, error) {
		competition := new(types.Competition)

		err := r.db.NewSelect().
			Model(competition).
			Relation("Judges").
			Relation("Participants").
			Where("competition.id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get competition: %w (id=%d)", err, id)
		}

		return competition, nil
	})
}

// GetProfile retrieves a profile by account ID.
func (r *TargetModel) GetProfile(ctx context.Context, id int64) (*types.Profile, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Profile, error) {
		profile := new(types.Profile)

		err := r.db.NewSelect().
			Model(profile).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w (id=%d)", err, id)
		}

		return profile, nil
	})
}
