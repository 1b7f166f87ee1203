package lead

import (
	"log/slog"
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
)

// Service owns lead business logic. Branch scoping is resolved here, once per
// call, and handed to the repository so reads and writes are constrained the
// same way.
type Service struct {
	repo     Repository
	resolver *auth.Resolver
	logger   *slog.Logger
}

func NewService(repo Repository, resolver *auth.Resolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, logger: logger}
}

func (s *Service) Create(actor *auth.User, dto CreateLeadDTO) (*Lead, error) {
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
	l := &Lead{
		Name:       dto.Name,
		Email:      dto.Email,
		Phone:      dto.Phone,
		Country:    dto.Country,
		Source:     dto.Source,
		Status:     StatusNew,
		AssignedTo: dto.AssignedTo,
		Branch:     branch,
		Notes:      dto.Notes,
		CreatedBy:  actor.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(l); err != nil {
		s.logger.Error("failed to create lead", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create lead", err)
	}

	s.logger.Info("lead created", "lead_id", l.ID, "branch", l.Branch, "user_id", actor.ID)
	return l, nil
}

func (s *Service) Get(actor *auth.User, id int64) (*Lead, error) {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}
	l, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) List(actor *auth.User, requestedBranch, status string, limit, offset int) ([]*Lead, error) {
	scope, err := s.resolver.BranchScope(actor, requestedBranch)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	leads, err := s.repo.List(scope, status, limit, offset)
	if err != nil {
		s.logger.Error("failed to list leads", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list leads", err)
	}
	return leads, nil
}

func (s *Service) Update(actor *auth.User, id int64, dto UpdateLeadDTO) (*Lead, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}

	l, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}

	if dto.Status != nil && *dto.Status != l.Status {
		if !l.CanTransition(*dto.Status) {
			return nil, internal.NewValidationError("status transition not allowed", internal.ErrCodeInvalidStatus)
		}
		l.Status = *dto.Status
	}
	if dto.Name != nil {
		l.Name = *dto.Name
	}
	if dto.Email != nil {
		l.Email = *dto.Email
	}
	if dto.Phone != nil {
		l.Phone = *dto.Phone
	}
	if dto.Country != nil {
		l.Country = *dto.Country
	}
	if dto.Source != nil {
		l.Source = *dto.Source
	}
	if dto.AssignedTo != nil {
		l.AssignedTo = dto.AssignedTo
	}
	if dto.Notes != nil {
		l.Notes = *dto.Notes
	}
	l.UpdatedAt = time.Now()

	if err := s.repo.Update(l, scope); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update lead", "error", err, "lead_id", id)
		return nil, internal.NewInternalError("failed to update lead", err)
	}

	return l, nil
}

func (s *Service) Delete(actor *auth.User, id int64) error {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id, scope); err != nil {
		return err
	}
	s.logger.Info("lead deleted", "lead_id", id, "user_id", actor.ID)
	return nil
}
