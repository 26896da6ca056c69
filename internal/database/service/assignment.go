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

// AssignmentService persists moderation assignments for the assignment engine.
type AssignmentService struct {
	model  *models.AssignmentModel
	logger *zap.Logger
}

var _ assign.AssignmentStore = (*AssignmentService)(nil)

// NewAssignment creates a new assignment service.
func NewAssignment(model *models.AssignmentModel, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		model:  model,
		logger: logger.Named("assignment_service"),
	}
}

// Latest implements assign.AssignmentStore.
func (s *AssignmentService) Latest(
	ctx context.Context, moderationType enum.ModerationType, targetID int64,
) (*types.ModerationAssignment, error) {
	return s.model.GetLatest(ctx, moderationType, targetID)
}

// Get implements assign.AssignmentStore.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*types.ModerationAssignment, error) {
	assignment, err := s.model.GetAssignment(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", assign.ErrAssignmentNotFound, id)
		}
		return nil, err
	}

	return assignment, nil
}

// Create implements assign.AssignmentStore.
func (s *AssignmentService) Create(ctx context.Context, assignment *types.ModerationAssignment) error {
	return s.model.CreateAssignment(ctx, assignment)
}

// Delete implements assign.AssignmentStore.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	return s.model.DeleteAssignment(ctx, id)
}

// SaveResolution implements assign.AssignmentStore.
func (s *AssignmentService) SaveResolution(ctx context.Context, assignment *types.ModerationAssignment) error {
	return s.model.SaveResolution(ctx, assignment)
}
