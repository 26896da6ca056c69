package database

import (
	"github.com/robalyx/assigner/internal/database/service"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	candidate  *service.CandidateService
	target     *service.TargetService
	assignment *service.AssignmentService
}

// NewService creates a new service instance with all services.
func NewService(repository *Repository, logger *zap.Logger) *Service {
	return &Service{
		candidate:  service.NewCandidate(repository.Moderator(), repository.Group(), logger),
		target:     service.NewTarget(repository.Target(), logger),
		assignment: service.NewAssignment(repository.Assignment(), logger),
	}
}

// Candidate returns the candidate service.
func (s *Service) Candidate() *service.CandidateService {
	return s.candidate
}

// Target returns the target service.
func (s *Service) Target() *service.TargetService {
	return s.target
}

// Assignment returns the assignment service.
func (s *Service) Assignment() *service.AssignmentService {
	return s.assignment
}
