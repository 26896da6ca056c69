package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/database/models"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
	"go.uber.org/zap"
)

// TargetService resolves moderation targets for the assignment engine.
type TargetService struct {
	model  *models.TargetModel
	logger *zap.Logger
}

var _ assign.TargetRepository = (*TargetService)(nil)

// NewTarget creates a new target service.
func NewTarget(model *models.TargetModel, logger *zap.Logger) *TargetService {
	return &TargetService{
		model:  model,
		logger: logger.Named("target_service"),
	}
}

// LoadTarget implements assign.TargetRepository.
func (s *TargetService) LoadTarget(
	ctx context.Context, moderationType enum.ModerationType, id int64,
) (assign.Target, error) {
	switch moderationType {
	case enum.ModerationTypeProject, enum.ModerationTypeCoreProject:
		project, err := s.model.GetProject(ctx, id)
		if err != nil {
			return nil, notFound(err, moderationType, id)
		}
		return projectTarget(project, moderationType)

	case enum.ModerationTypeCompetition:
		competition, err := s.model.GetCompetition(ctx, id)
		if err != nil {
			return nil, notFound(err, moderationType, id)
		}
		return assign.NewCompetitionTarget(competition), nil

	case enum.ModerationTypeProfile:
		profile, err := s.model.GetProfile(ctx, id)
		if err != nil {
			return nil, notFound(err, moderationType, id)
		}
		return assign.NewProfileTarget(profile), nil
	}

	return nil, fmt.Errorf("%w: %s", assign.ErrIllegalModerationType, moderationType)
}

// projectTarget builds the target of a project row, which must match the
// requested type so one project only ever has one assignment history.
func projectTarget(project *types.Project, moderationType enum.ModerationType) (assign.Target, error) {
	core := moderationType == enum.ModerationTypeCoreProject
	if project.IsCore != core {
		return nil, fmt.Errorf("%w: project %d requested as %s (core=%t)",
			assign.ErrIllegalModerationType, project.ID, moderationType, project.IsCore)
	}

	return assign.NewProjectTarget(project, core), nil
}

// notFound maps a missing row to assign.ErrTargetNotFound.
func notFound(err error, moderationType enum.ModerationType, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %d", assign.ErrTargetNotFound, moderationType, id)
	}
	return err
}
