package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/robalyx/assigner/internal/database/dbretry"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// advanceQuery increments a rotation index in one statement, wrapping to 1
// once it reaches the limit or when the stored value is not a number. The
// outer CASE guards the cast, since AND operands may run in any order.
const advanceQuery = `
INSERT INTO rotation_states (key, value, updated_at)
VALUES (?, '1', ?)
ON CONFLICT (key) DO UPDATE SET
	value = CASE
		WHEN rotation_states.value ~ '^[0-9]{1,18}$' THEN
			CASE
				WHEN rotation_states.value::bigint < ?
				THEN (rotation_states.value::bigint + 1)::text
				ELSE '1'
			END
		ELSE '1'
	END,
	updated_at = EXCLUDED.updated_at
RETURNING value`

// RotationModel handles database operations for round-robin state.
type RotationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewRotation creates a RotationModel instance.
func NewRotation(db *bun.DB, logger *zap.Logger) *RotationModel {
	return &RotationModel{
		db:     db,
		logger: logger.Named("db_rotation"),
	}
}

// GetValue returns the stored value for a key and whether it exists.
func (r *RotationModel) GetValue(ctx context.Context, key string) (string, bool, error) {
	state, err := dbretry.Operation(ctx, func(ctx context.Context) (*types.RotationState, error) {
		state := new(types.RotationState)

		err := r.db.NewSelect().
			Model(state).
			Where("key = ?", key).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get rotation state: %w (key=%s)", err, key)
		}

		return state, nil
	})
	if err != nil || state == nil {
		return "", false, err
	}

	return state.Value, true, nil
}

// SetValue updates or creates the value for a key.
func (r *RotationModel) SetValue(ctx context.Context, key, value string) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		state := &types.RotationState{
			Key:       key,
			Value:     value,
			UpdatedAt: time.Now(),
		}

		_, err := r.db.NewInsert().
			Model(state).
			On("CONFLICT (key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to set rotation state: %w (key=%s)", err, key)
		}

		return nil
	})
}

// CreateValue inserts the value only if the key does not exist yet. It returns
// the value stored after the call and whether this call created it.
func (r *RotationModel) CreateValue(ctx context.Context, key, value string) (string, bool, error) {
	created, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		state := &types.RotationState{
			Key:       key,
			Value:     value,
			UpdatedAt: time.Now(),
		}

		result, err := r.db.NewInsert().
			Model(state).
			On("CONFLICT (key) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to create rotation state: %w (key=%s)", err, key)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("failed to read affected rows: %w (key=%s)", err, key)
		}

		return affected > 0, nil
	})
	if err != nil {
		return "", false, err
	}

	if created {
		return value, true, nil
	}

	existing, _, err := r.GetValue(ctx, key)
	if err != nil {
		return "", false, err
	}

	return existing, false, nil
}

// AdvanceIndex atomically moves the rotation index stored at key to its next
// position in [1, limit] and returns it.
func (r *RotationModel) AdvanceIndex(ctx context.Context, key string, limit int) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		var value string

		err := r.db.NewRaw(advanceQuery, key, time.Now(), limit).Scan(ctx, &value)
		if err != nil {
			return 0, fmt.Errorf("failed to advance rotation index: %w (key=%s)", err, key)
		}

		next, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid rotation index %q: %w (key=%s)", value, err, key)
		}

		r.logger.Debug("Advanced rotation index",
			zap.String("key", key),
			zap.Int("next", next),
			zap.Int("limit", limit))

		return next, nil
	})
}
