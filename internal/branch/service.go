package branch

import (
	"log/slog"
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(actor *auth.User, dto CreateBranchDTO) (*Branch, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	b := &Branch{
		Code:      dto.Code,
		Name:      dto.Name,
		City:      dto.City,
		Country:   dto.Country,
		Phone:     dto.Phone,
		Address:   dto.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(b); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to create branch", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create branch", err)
	}

	s.logger.Info("branch created", "branch_id", b.ID, "code", b.Code, "user_id", actor.ID)
	return b, nil
}

func (s *Service) Get(id int64) (*Branch, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(limit, offset int) ([]*Branch, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	branches, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list branches", "error", err)
		return nil, internal.NewInternalError("failed to list branches", err)
	}
	return branches, nil
}

func (s *Service) Update(actor *auth.User, id int64, dto UpdateBranchDTO) (*Branch, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	b, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		b.Name = *dto.Name
	}
	if dto.City != nil {
		b.City = *dto.City
	}
	if dto.Country != nil {
		b.Country = *dto.Country
	}
	if dto.Phone != nil {
		b.Phone = *dto.Phone
	}
	if dto.Address != nil {
		b.Address = *dto.Address
	}
	b.UpdatedAt = time.Now()

	if err := s.repo.Update(b); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update branch", "error", err, "branch_id", id)
		return nil, internal.NewInternalError("failed to update branch", err)
	}

	s.logger.Info("branch updated", "branch_id", id, "user_id", actor.ID)
	return b, nil
}

func (s *Service) Delete(actor *auth.User, id int64) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.Info("branch deleted", "branch_id", id, "user_id", actor.ID)
	return nil
}
