package university

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

func (s *Service) Create(actor *auth.User, dto CreateUniversityDTO) (*University, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	u := &University{
		Name:           dto.Name,
		Country:        dto.Country,
		Programs:       dto.Programs,
		CommissionRate: dto.CommissionRate,
		Website:        dto.Website,
		CreatedBy:      actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create university", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create university", err)
	}

	s.logger.Info("university created", "university_id", u.ID, "user_id", actor.ID)
	return u, nil
}

func (s *Service) Get(id int64) (*University, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(country string, limit, offset int) ([]*University, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	universities, err := s.repo.List(country, limit, offset)
	if err != nil {
		s.logger.Error("failed to list universities", "error", err)
		return nil, internal.NewInternalError("failed to list universities", err)
	}
	return universities, nil
}

func (s *Service) Update(actor *auth.User, id int64, dto UpdateUniversityDTO) (*University, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Country != nil {
		u.Country = *dto.Country
	}
	if dto.Programs != nil {
		u.Programs = *dto.Programs
	}
	if dto.CommissionRate != nil {
		u.CommissionRate = *dto.CommissionRate
	}
	if dto.Website != nil {
		u.Website = *dto.Website
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update university", "error", err, "university_id", id)
		return nil, internal.NewInternalError("failed to update university", err)
	}

	s.logger.Info("university updated", "university_id", id, "user_id", actor.ID)
	return u, nil
}

func (s *Service) Delete(actor *auth.User, id int64) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.Info("university deleted", "university_id", id, "user_id", actor.ID)
	return nil
}
