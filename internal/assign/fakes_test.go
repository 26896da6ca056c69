package assign_test

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
	"github.com/robalyx/assigner/internal/rotation"
	"go.uber.org/zap"
)

var errDatabase = errors.New("database unavailable")

// fakeCandidates is an in-memory CandidateRepository.
type fakeCandidates struct {
	moderators map[int64]*types.Moderator
	blocks     map[int64]map[int64]struct{} // blocker -> blocked
	groups     map[int64]*assign.ManagementGroup
	listErr    error
	listCalls  int
}

func newFakeCandidates(moderators ...*types.Moderator) *fakeCandidates {
	f := &fakeCandidates{
		moderators: make(map[int64]*types.Moderator),
		blocks:     make(map[int64]map[int64]struct{}),
		groups:     make(map[int64]*assign.ManagementGroup),
	}
	for _, m := range moderators {
		f.moderators[m.ID] = m
	}
	return f
}

func (f *fakeCandidates) block(blocker, blocked int64) {
	if f.blocks[blocker] == nil {
		f.blocks[blocker] = make(map[int64]struct{})
	}
	f.blocks[blocker][blocked] = struct{}{}
}

func (f *fakeCandidates) ListEligible(_ context.Context, query assign.CandidateQuery) ([]*types.Moderator, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	var result []*types.Moderator
	for _, m := range f.moderators {
		if !m.IsEligible() {
			continue
		}
		if len(query.Include) > 0 && !slices.Contains(query.Include, m.ID) {
			continue
		}
		if slices.Contains(query.Exclude, m.ID) {
			continue
		}
		result = append(result, m)
	}

	slices.SortFunc(result, func(a, b *types.Moderator) int {
		if c := cmp.Compare(b.Reputation, a.Reputation); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}

	return result, nil
}

func (f *fakeCandidates) GetModerator(_ context.Context, id int64) (*types.Moderator, error) {
	return f.moderators[id], nil
}

func (f *fakeCandidates) BlockersOf(_ context.Context, targetID int64, candidateIDs []int64) (map[int64]struct{}, error) {
	result := make(map[int64]struct{})
	for _, id := range candidateIDs {
		if _, ok := f.blocks[id][targetID]; ok {
			result[id] = struct{}{}
		}
	}
	return result, nil
}

func (f *fakeCandidates) IsManagementAccount(_ context.Context, id int64) (bool, error) {
	m, ok := f.moderators[id]
	return ok && m.IsManagement, nil
}

func (f *fakeCandidates) ManagementGroupOf(_ context.Context, accountID int64) (*assign.ManagementGroup, error) {
	return f.groups[accountID], nil
}

type targetKey struct {
	moderationType enum.ModerationType
	id             int64
}

// fakeTargets is an in-memory TargetRepository.
type fakeTargets struct {
	targets map[targetKey]assign.Target
}

func newFakeTargets(targets ...assign.Target) *fakeTargets {
	f := &fakeTargets{targets: make(map[targetKey]assign.Target)}
	for _, t := range targets {
		f.targets[targetKey{t.Type(), t.ID()}] = t
	}
	return f
}

func (f *fakeTargets) LoadTarget(_ context.Context, moderationType enum.ModerationType, id int64) (assign.Target, error) {
	t, ok := f.targets[targetKey{moderationType, id}]
	if !ok {
		return nil, assign.ErrTargetNotFound
	}
	return t, nil
}

// fakeAssignments is an in-memory AssignmentStore.
type fakeAssignments struct {
	mu        sync.Mutex
	items     map[int64]*types.ModerationAssignment
	nextID    int64
	createErr error
	deleted   []int64
}

func newFakeAssignments() *fakeAssignments {
	return &fakeAssignments{items: make(map[int64]*types.ModerationAssignment)}
}

func (f *fakeAssignments) Latest(
	_ context.Context, moderationType enum.ModerationType, targetID int64,
) (*types.ModerationAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *types.ModerationAssignment
	for _, a := range f.items {
		if a.Type != moderationType || a.TargetID != targetID {
			continue
		}
		if latest == nil || a.RequestedAt.After(latest.RequestedAt) ||
			(a.RequestedAt.Equal(latest.RequestedAt) && a.ID > latest.ID) {
			latest = a
		}
	}

	if latest == nil {
		return nil, nil
	}

	clone := *latest
	return &clone, nil
}

func (f *fakeAssignments) Get(_ context.Context, id int64) (*types.ModerationAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.items[id]
	if !ok {
		return nil, assign.ErrAssignmentNotFound
	}

	clone := *a
	return &clone, nil
}

func (f *fakeAssignments) Create(_ context.Context, assignment *types.ModerationAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	f.nextID++
	assignment.ID = f.nextID

	clone := *assignment
	f.items[assignment.ID] = &clone
	return nil
}

func (f *fakeAssignments) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAssignments) SaveResolution(_ context.Context, assignment *types.ModerationAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *assignment
	f.items[assignment.ID] = &clone
	return nil
}

func (f *fakeAssignments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// fakeDispatcher records alerts.
type fakeDispatcher struct {
	mu      sync.Mutex
	created []int64
	alerts  []string
}

func (f *fakeDispatcher) AssignmentCreated(_ context.Context, assignment *types.ModerationAssignment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, assignment.ID)
}

func (f *fakeDispatcher) AdminAlert(_ context.Context, subject string, _ error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, subject)
}

// memoryStore is a rotation.Store without atomic advance support.
type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memoryStore) Create(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.values[key]; ok {
		if existing != value {
			return rotation.ErrDuplicateKey
		}
		return nil
	}
	s.values[key] = value
	return nil
}

func moderator(id int64, reputation int) *types.Moderator {
	return &types.Moderator{
		ID:          id,
		IsModerator: true,
		IsActive:    true,
		Reputation:  reputation,
	}
}

func ids(moderators []*types.Moderator) []int64 {
	result := make([]int64, len(moderators))
	for i, m := range moderators {
		result[i] = m.ID
	}
	return result
}

type engineFixture struct {
	engine      *assign.Engine
	candidates  *fakeCandidates
	targets     *fakeTargets
	assignments *fakeAssignments
	dispatcher  *fakeDispatcher
	store       *memoryStore
}

func setupEngine(t *testing.T, candidates *fakeCandidates, targets ...assign.Target) *engineFixture {
	t.Helper()

	f := &engineFixture{
		candidates:  candidates,
		targets:     newFakeTargets(targets...),
		assignments: newFakeAssignments(),
		dispatcher:  &fakeDispatcher{},
		store:       newMemoryStore(),
	}

	f.engine = assign.NewEngine(f.targets, f.candidates, f.assignments, f.store, f.dispatcher,
		assign.Config{SampleSize: 100}, zap.NewNop())

	return f
}

// seed stores an assignment requested at the given time.
func (f *engineFixture) seed(t *testing.T, a *types.ModerationAssignment, requestedAt time.Time) *types.ModerationAssignment {
	t.Helper()
	a.RequestedAt = requestedAt
	if a.StaleDays == 0 {
		a.StaleDays = types.DefaultStaleDays
	}
	if err := f.assignments.Create(t.Context(), a); err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}
	return a
}
