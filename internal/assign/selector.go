package assign

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/rotation"
	"go.uber.org/zap"
)

// RotationState is the persisted round-robin position of a rotation key.
type RotationState struct {
	Key          string
	LastIndex    int   // 0 when the key was never used
	LastSelected int64 // 0 when no moderator was recorded
}

// Selector picks moderators from ranked pools in round-robin order.
type Selector struct {
	store  rotation.Store
	logger *zap.Logger
}

// NewSelector creates a Selector over a rotation store.
func NewSelector(store rotation.Store, logger *zap.Logger) *Selector {
	return &Selector{
		store:  store,
		logger: logger.Named("assign_selector"),
	}
}

// SelectNext advances the rotation for key and returns the next moderator of
// the ranked pool. The previously selected moderator is pinned to the front
// of the pool before indexing so the same moderator is not picked twice in a
// row. The ranked slice is never modified.
func (s *Selector) SelectNext(ctx context.Context, ranked []*types.Moderator, key string) (*types.Moderator, error) {
	if len(ranked) == 0 {
		return nil, ErrNoCandidate
	}

	size := len(ranked)

	next, err := rotation.Advance(ctx, s.store, rotation.IndexKey(key), size)
	if err != nil {
		return nil, fmt.Errorf("failed to advance rotation: %w", err)
	}

	// A store that does not know the pool size could return anything
	if next < 1 || next > size {
		next = 1
	}

	candidate := ranked[next-1]
	if size == 1 {
		return candidate, nil
	}

	lastID, err := s.lastSelected(ctx, key, candidate.ID)
	if err != nil {
		return nil, err
	}

	if pos := indexOf(ranked, lastID); pos >= 0 && next > 1 {
		candidate = moveToFront(ranked, pos)[next-1]
	}

	lastKey := rotation.LastSelectedKey(key)
	if err := s.store.Set(ctx, lastKey, strconv.FormatInt(candidate.ID, 10)); err != nil {
		return nil, fmt.Errorf("failed to persist last selected moderator: %w", err)
	}

	s.logger.Debug("Selected moderator",
		zap.String("key", key),
		zap.Int("index", next),
		zap.Int("poolSize", size),
		zap.Int64("previousID", lastID),
		zap.Int64("moderatorID", candidate.ID))

	return candidate, nil
}

// State returns the persisted rotation position of key.
func (s *Selector) State(ctx context.Context, key string) (*RotationState, error) {
	state := &RotationState{Key: key}

	index, found, err := s.store.Get(ctx, rotation.IndexKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to load rotation index: %w", err)
	}

	if found {
		state.LastIndex, err = strconv.Atoi(index)
		if err != nil {
			s.logger.Warn("Ignoring malformed rotation index",
				zap.String("key", rotation.IndexKey(key)),
				zap.String("value", index))
		}
	}

	last, found, err := s.store.Get(ctx, rotation.LastSelectedKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to load last selected moderator: %w", err)
	}

	if found {
		state.LastSelected, err = strconv.ParseInt(last, 10, 64)
		if err != nil {
			s.logger.Warn("Ignoring malformed last selected moderator",
				zap.String("key", rotation.LastSelectedKey(key)),
				zap.String("value", last))
		}
	}

	return state, nil
}

// lastSelected loads the previous pick for key, recording tentative as the
// first pick when the key is new. A concurrent first pick wins and is re-read.
func (s *Selector) lastSelected(ctx context.Context, key string, tentative int64) (int64, error) {
	lastKey := rotation.LastSelectedKey(key)

	value, found, err := s.store.Get(ctx, lastKey)
	if err != nil {
		return 0, fmt.Errorf("failed to load last selected moderator: %w", err)
	}

	if !found {
		value = strconv.FormatInt(tentative, 10)

		err := s.store.Create(ctx, lastKey, value)
		switch {
		case errors.Is(err, rotation.ErrDuplicateKey):
			value, _, err = s.store.Get(ctx, lastKey)
			if err != nil {
				return 0, fmt.Errorf("failed to reload last selected moderator: %w", err)
			}
		case err != nil:
			return 0, fmt.Errorf("failed to create last selected moderator: %w", err)
		}
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		s.logger.Warn("Ignoring malformed last selected moderator",
			zap.String("key", lastKey),
			zap.String("value", value))
		return 0, nil
	}

	return id, nil
}

func indexOf(pool []*types.Moderator, id int64) int {
	for i, candidate := range pool {
		if candidate.ID == id {
			return i
		}
	}
	return -1
}

// moveToFront returns a copy of pool with the element at pos moved first.
func moveToFront(pool []*types.Moderator, pos int) []*types.Moderator {
	reordered := make([]*types.Moderator, 0, len(pool))
	reordered = append(reordered, pool[pos])
	reordered = append(reordered, pool[:pos]...)
	reordered = append(reordered, pool[pos+1:]...)
	return reordered
}
