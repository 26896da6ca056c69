package rotation

import (
	"context"

	"github.com/robalyx/assigner/internal/database/models"
)

// PostgresStore keeps rotation state in the rotation_states table.
type PostgresStore struct {
	model *models.RotationModel
}

var (
	_ Store    = (*PostgresStore)(nil)
	_ Advancer = (*PostgresStore)(nil)
)

// NewPostgresStore creates a PostgresStore backed by the rotation model.
func NewPostgresStore(model *models.RotationModel) *PostgresStore {
	return &PostgresStore{model: model}
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.model.GetValue(ctx, key)
}

// Set implements Store.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	return s.model.SetValue(ctx, key, value)
}

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, key, value string) error {
	stored, created, err := s.model.CreateValue(ctx, key, value)
	if err != nil {
		return err
	}

	if !created && stored != value {
		return ErrDuplicateKey
	}

	return nil
}

// Advance implements Advancer with a single upsert statement.
func (s *PostgresStore) Advance(ctx context.Context, key string, limit int) (int, error) {
	return s.model.AdvanceIndex(ctx, key, limit)
}
