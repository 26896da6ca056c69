package database

import (
	"github.com/robalyx/assigner/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	moderator  *models.ModeratorModel
	target     *models.TargetModel
	assignment *models.AssignmentModel
	group      *models.GroupModel
	rotation   *models.RotationModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		moderator:  models.NewModerator(db, logger),
		target:     models.NewTarget(db, logger),
		assignment: models.NewAssignment(db, logger),
		group:      models.NewGroup(db, logger),
		rotation:   models.NewRotation(db, logger),
	}
}

// Moderator returns the moderator model repository.
func (r *Repository) Moderator() *models.ModeratorModel {
	return r.moderator
}

// Target returns the target model repository.
func (r *Repository) Target() *models.TargetModel {
	return r.target
}

// Assignment returns the assignment model repository.
func (r *Repository) Assignment() *models.AssignmentModel {
	return r.assignment
}

// Group returns the management group model repository.
func (r *Repository) Group() *models.GroupModel {
	return r.group
}

// Rotation returns the rotation state model repository.
func (r *Repository) Rotation() *models.RotationModel {
	return r.rotation
}
