package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/database/models"
	"github.com/robalyx/assigner/internal/database/types"
	"go.uber.org/zap"
)

// CandidateService answers moderator eligibility queries for the assignment engine.
type CandidateService struct {
	moderator *models.ModeratorModel
	group     *models.GroupModel
	logger    *zap.Logger
}

var _ assign.CandidateRepository = (*CandidateService)(nil)

// NewCandidate creates a new candidate service.
func NewCandidate(moderator *models.ModeratorModel, group *models.GroupModel, logger *zap.Logger) *CandidateService {
	return &CandidateService{
		moderator: moderator,
		group:     group,
		logger:    logger.Named("candidate_service"),
	}
}

// ListEligible implements assign.CandidateRepository.
func (s *CandidateService) ListEligible(ctx context.Context, query assign.CandidateQuery) ([]*types.Moderator, error) {
	return s.moderator.ListEligible(ctx, models.ModeratorFilter{
		Include: query.Include,
		Exclude: query.Exclude,
		Limit:   query.Limit,
	})
}

// GetModerator implements assign.CandidateRepository.
func (s *CandidateService) GetModerator(ctx context.Context, id int64) (*types.Moderator, error) {
	moderator, err := s.moderator.GetModerator(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return moderator, nil
}

// BlockersOf implements assign.CandidateRepository.
func (s *CandidateService) BlockersOf(
	ctx context.Context, targetID int64, candidateIDs []int64,
) (map[int64]struct{}, error) {
	return s.moderator.BlockersOf(ctx, targetID, candidateIDs)
}

// IsManagementAccount implements assign.CandidateRepository.
func (s *CandidateService) IsManagementAccount(ctx context.Context, id int64) (bool, error) {
	account, err := s.GetModerator(ctx, id)
	if err != nil {
		return false, err
	}

	return account != nil && account.IsManagement, nil
}

// ManagementGroupOf implements assign.CandidateRepository.
func (s *CandidateService) ManagementGroupOf(ctx context.Context, accountID int64) (*assign.ManagementGroup, error) {
	group, err := s.group.GetGroupForAccount(ctx, accountID)
	if err != nil || group == nil {
		return nil, err
	}

	members, err := s.group.GetMemberIDs(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Resolved management group",
		zap.Int64("accountID", accountID),
		zap.Int64("groupID", group.ID),
		zap.Int("members", len(members)))

	return &assign.ManagementGroup{
		ID:      group.ID,
		Members: members,
	}, nil
}
