package assign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
	"github.com/robalyx/assigner/internal/rotation"
	"go.uber.org/zap"
)

// Config tunes the assignment engine.
type Config struct {
	SampleSize        int    // Maximum candidates considered per request
	DefaultStaleDays  int    // Staleness threshold when a request sets none
	GlobalRotationKey string // Rotation key of the public moderator pool
}

// Request asks for a moderator to review a target.
type Request struct {
	Type     enum.ModerationType
	TargetID int64

	// Requester is the account the request originates from. Zero means the
	// target's owner.
	Requester int64

	ReassignIfRejected bool
	ReassignIfApproved bool

	// Internal scopes the request to the requester's management group.
	Internal bool

	// StaleDays overrides the staleness threshold of the new assignment.
	StaleDays int

	// ChosenModerator skips pool building when non-zero.
	ChosenModerator int64

	PreferredOnly []int64
	OnlyFrom      []int64

	Message string
}

// Engine assigns moderators to moderation requests.
type Engine struct {
	targets     TargetRepository
	candidates  CandidateRepository
	assignments AssignmentStore
	dispatcher  Dispatcher
	pool        *PoolBuilder
	selector    *Selector
	config      Config
	logger      *zap.Logger
	now         func() time.Time
}

// NewEngine creates an Engine.
func NewEngine(
	targets TargetRepository,
	candidates CandidateRepository,
	assignments AssignmentStore,
	store rotation.Store,
	dispatcher Dispatcher,
	config Config,
	logger *zap.Logger,
) *Engine {
	if config.DefaultStaleDays <= 0 {
		config.DefaultStaleDays = types.DefaultStaleDays
	}

	if config.GlobalRotationKey == "" {
		config.GlobalRotationKey = rotation.GlobalKey
	}

	return &Engine{
		targets:     targets,
		candidates:  candidates,
		assignments: assignments,
		dispatcher:  dispatcher,
		pool:        NewPoolBuilder(candidates, config.SampleSize, logger),
		selector:    NewSelector(store, logger),
		config:      config,
		logger:      logger.Named("assign_engine"),
		now:         time.Now,
	}
}

// Selector returns the rotation selector used by the engine.
func (e *Engine) Selector() *Selector {
	return e.selector
}

// RequestModeration returns the assignment handling a target, creating or
// reassigning one when its moderation history requires it. Expected failures
// (ErrNoCandidate, ErrValidationFault, ErrIllegalModerationType,
// ErrTargetNotFound) are returned as they are. Anything else is reported to
// the admins and returned as ErrAssignmentFailed.
func (e *Engine) RequestModeration(ctx context.Context, req Request) (*types.ModerationAssignment, error) {
	start := time.Now()

	assignment, outcome, err := e.requestModeration(ctx, req)
	requestDuration.WithLabelValues(req.Type.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, e.handleFailure(ctx, req, err)
	}

	requestsTotal.WithLabelValues(req.Type.String(), outcome).Inc()

	return assignment, nil
}

func (e *Engine) requestModeration(
	ctx context.Context, req Request,
) (*types.ModerationAssignment, string, error) {
	if !req.Type.IsAModerationType() {
		return nil, "", fmt.Errorf("%w: %s", ErrIllegalModerationType, req.Type)
	}

	target, err := e.targets.LoadTarget(ctx, req.Type, req.TargetID)
	if err != nil {
		return nil, "", err
	}

	requester := req.Requester
	if requester == 0 {
		requester = target.Owner()
	}

	latest, err := e.assignments.Latest(ctx, req.Type, req.TargetID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load latest assignment: %w", err)
	}

	state := Classify(latest, e.now())

	var previous *types.ModerationAssignment

	switch state {
	case StateNoAssignment:
	case StateOpenPending:
		return latest, outcomeReused, nil
	case StateResolvedRejected:
		if !req.ReassignIfRejected {
			return latest, outcomeReused, nil
		}
		previous = latest
	case StateResolvedApproved:
		if !req.ReassignIfApproved {
			return latest, outcomeReused, nil
		}
		previous = latest
	case StateStale:
		previous = latest
	}

	var extra []int64
	if previous != nil {
		extra = []int64{previous.ModeratorID}
	}

	excluded, err := ComputeExcludedIdentities(target, extra)
	if err != nil {
		return nil, "", err
	}

	moderator, outcome, err := e.chooseModerator(ctx, req, requester, excluded)
	if err != nil {
		return nil, "", err
	}

	staleDays := req.StaleDays
	if staleDays <= 0 {
		staleDays = e.config.DefaultStaleDays
	}

	assignment := &types.ModerationAssignment{
		Type:           req.Type,
		TargetID:       req.TargetID,
		ModeratorID:    moderator.ID,
		RequesterID:    requester,
		Status:         enum.AssignmentStatusPending,
		StaleDays:      staleDays,
		Internal:       req.Internal,
		RequestMessage: req.Message,
		RequestedAt:    e.now(),
	}

	if err := e.assignments.Create(ctx, assignment); err != nil {
		return nil, "", fmt.Errorf("failed to create assignment: %w", err)
	}

	if previous != nil {
		if err := e.assignments.Delete(ctx, previous.ID); err != nil {
			e.logger.Error("Failed to delete superseded assignment",
				zap.Int64("assignmentID", previous.ID),
				zap.Int64("replacementID", assignment.ID),
				zap.Error(err))
		}
	}

	e.logger.Info("Assigned moderator",
		zap.String("type", req.Type.String()),
		zap.Int64("targetID", req.TargetID),
		zap.Int64("moderatorID", moderator.ID),
		zap.Int64("assignmentID", assignment.ID),
		zap.String("previousState", state.String()),
		zap.String("path", outcome))

	e.dispatcher.AssignmentCreated(ctx, assignment)

	return assignment, outcome, nil
}

// chooseModerator validates an explicit choice or runs pool building and rotation.
func (e *Engine) chooseModerator(
	ctx context.Context, req Request, requester int64, excluded map[int64]struct{},
) (*types.Moderator, string, error) {
	if req.ChosenModerator != 0 {
		moderator, err := e.validateChosen(ctx, req.ChosenModerator, requester, excluded)
		return moderator, outcomeChosen, err
	}

	rotationKey := e.config.GlobalRotationKey
	onlyFrom := req.OnlyFrom

	if req.Internal {
		group, err := e.candidates.ManagementGroupOf(ctx, requester)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load management group: %w", err)
		}

		if group != nil {
			rotationKey = rotation.GroupKey(group.ID)

			onlyFrom = groupRestriction(onlyFrom, group.Members)
			if len(onlyFrom) == 0 {
				return nil, "", ErrNoCandidate
			}
		}
	}

	pool, err := e.pool.BuildRankedPool(ctx, PoolRequest{
		Excluded:      excluded,
		PreferredOnly: req.PreferredOnly,
		OnlyFrom:      onlyFrom,
		Owner:         requester,
	})
	if err != nil {
		return nil, "", err
	}

	if pool.Direct {
		return pool.Candidates[0], outcomeDirect, nil
	}

	moderator, err := e.selector.SelectNext(ctx, pool.Candidates, rotationKey)
	if err != nil {
		return nil, "", err
	}

	return moderator, outcomeRotation, nil
}

// groupRestriction narrows onlyFrom to the group's members. An empty onlyFrom
// allows every member.
func groupRestriction(onlyFrom, members []int64) []int64 {
	if len(onlyFrom) == 0 {
		return members
	}

	allowed := make(map[int64]struct{}, len(members))
	for _, id := range members {
		allowed[id] = struct{}{}
	}

	var restricted []int64
	for _, id := range onlyFrom {
		if _, ok := allowed[id]; ok {
			restricted = append(restricted, id)
		}
	}

	return restricted
}

// validateChosen checks an explicitly requested moderator against the base
// predicate, the exclusions and the requester's block list.
func (e *Engine) validateChosen(
	ctx context.Context, moderatorID, requester int64, excluded map[int64]struct{},
) (*types.Moderator, error) {
	moderator, err := e.candidates.GetModerator(ctx, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chosen moderator: %w", err)
	}

	if !moderator.IsEligible() {
		return nil, fmt.Errorf("%w: account %d is not an eligible moderator", ErrValidationFault, moderatorID)
	}

	if _, ok := excluded[moderatorID]; ok {
		return nil, fmt.Errorf("%w: account %d has a conflict of interest", ErrValidationFault, moderatorID)
	}

	blockers, err := e.candidates.BlockersOf(ctx, requester, []int64{moderatorID})
	if err != nil {
		return nil, fmt.Errorf("failed to check blocks: %w", err)
	}

	if _, blocked := blockers[moderatorID]; blocked {
		return nil, fmt.Errorf("%w: account %d blocked the requester", ErrValidationFault, moderatorID)
	}

	return moderator, nil
}

// Resolve records the decision of the assigned moderator.
func (e *Engine) Resolve(
	ctx context.Context, assignmentID, moderatorID int64, approve bool, message string,
) (*types.ModerationAssignment, error) {
	assignment, err := e.assignments.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if assignment.ModeratorID != moderatorID {
		return nil, ErrNotAssignedModerator
	}

	if assignment.Resolved {
		return nil, ErrAlreadyResolved
	}

	now := e.now()
	assignment.Resolved = true
	assignment.ResponseMessage = message
	assignment.RespondedAt = &now

	if approve {
		assignment.Status = enum.AssignmentStatusApproved
	} else {
		assignment.Status = enum.AssignmentStatusRejected
	}

	if err := e.assignments.SaveResolution(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to save resolution: %w", err)
	}

	resolutionsTotal.WithLabelValues(assignment.Type.String(), assignment.Status.String()).Inc()

	e.logger.Info("Resolved assignment",
		zap.Int64("assignmentID", assignment.ID),
		zap.Int64("moderatorID", moderatorID),
		zap.String("status", assignment.Status.String()))

	return assignment, nil
}

// handleFailure maps a failed request to the error returned to the caller.
func (e *Engine) handleFailure(ctx context.Context, req Request, err error) error {
	fields := []zap.Field{
		zap.String("type", req.Type.String()),
		zap.Int64("targetID", req.TargetID),
		zap.Error(err),
	}

	switch {
	case errors.Is(err, ErrNoCandidate):
		failuresTotal.WithLabelValues(reasonNoCandidate).Inc()
		e.logger.Warn("No moderator available", fields...)
		return ErrNoCandidate
	case errors.Is(err, ErrValidationFault):
		failuresTotal.WithLabelValues(reasonValidation).Inc()
		e.logger.Warn("Chosen moderator rejected", fields...)
		return err
	case errors.Is(err, ErrIllegalModerationType):
		failuresTotal.WithLabelValues(reasonIllegalType).Inc()
		e.logger.Warn("Illegal moderation type", fields...)
		return err
	case errors.Is(err, ErrTargetNotFound):
		failuresTotal.WithLabelValues(reasonTargetNotFound).Inc()
		e.logger.Warn("Moderation target not found", fields...)
		return err
	}

	failuresTotal.WithLabelValues(reasonInternal).Inc()
	e.logger.Error("Failed to assign moderator", fields...)
	e.dispatcher.AdminAlert(ctx, fmt.Sprintf("moderation assignment failed for %s %d", req.Type, req.TargetID), err)

	return ErrAssignmentFailed
}
