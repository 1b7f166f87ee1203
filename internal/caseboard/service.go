package caseboard

import (
	"log/slog"
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
)

type Service struct {
	repo     Repository
	resolver *auth.Resolver
	logger   *slog.Logger
}

func NewService(repo Repository, resolver *auth.Resolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, logger: logger}
}

func (s *Service) Create(actor *auth.User, dto CreateCaseDTO) (*Case, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := s.resolver.BranchScope(actor, dto.Branch)
	if err != nil {
		return nil, err
	}
	branch := dto.Branch
	if pinned, fixed := scope.Branch(); fixed {
		branch = pinned
	}
	if branch == "" {
		return nil, internal.NewValidationError("branch is required", internal.ErrCodeInvalidBranch)
	}

	now := time.Now()
	c := &Case{
		Title:       dto.Title,
		Description: dto.Description,
		Column:      dto.Column,
		AssignedTo:  dto.AssignedTo,
		DueDate:     dto.DueDate,
		Branch:      branch,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create case", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create case", err)
	}

	s.logger.Info("case created", "case_id", c.ID, "branch", c.Branch, "user_id", actor.ID)
	return c, nil
}

func (s *Service) Get(actor *auth.User, id int64) (*Case, error) {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(id, scope)
}

func (s *Service) List(actor *auth.User, requestedBranch, column string, limit, offset int) ([]*Case, error) {
	scope, err := s.resolver.BranchScope(actor, requestedBranch)
	if err != nil {
		return nil, err
	}
	if column != "" && !ValidColumn(column) {
		return nil, internal.NewValidationError("column is invalid", internal.ErrCodeValidationFailed)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	cases, err := s.repo.List(scope, column, limit, offset)
	if err != nil {
		s.logger.Error("failed to list cases", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list cases", err)
	}
	return cases, nil
}

func (s *Service) Update(actor *auth.User, id int64, dto UpdateCaseDTO) (*Case, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		c.Title = *dto.Title
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.AssignedTo != nil {
		c.AssignedTo = dto.AssignedTo
	}
	if dto.DueDate != nil {
		c.DueDate = dto.DueDate
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(c, scope); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update case", "error", err, "case_id", id)
		return nil, internal.NewInternalError("failed to update case", err)
	}

	return c, nil
}

// Move repositions a card. Concurrent moves are not serialized; the last
// write wins and the board re-renders from whatever the row says.
func (s *Service) Move(actor *auth.User, id int64, dto MoveCaseDTO) (*Case, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}

	if err := s.repo.Move(id, dto.Column, dto.Position, scope); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to move case", "error", err, "case_id", id)
		return nil, internal.NewInternalError("failed to move case", err)
	}

	s.logger.Info("case moved", "case_id", id, "column", dto.Column, "position", dto.Position, "user_id", actor.ID)
	return s.repo.GetByID(id, scope)
}

func (s *Service) Delete(actor *auth.User, id int64) error {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id, scope); err != nil {
		return err
	}
	s.logger.Info("case deleted", "case_id", id, "user_id", actor.ID)
	return nil
}
