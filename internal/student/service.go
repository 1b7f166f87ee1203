package student

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

func (s *Service) Create(actor *auth.User, dto CreateStudentDTO) (*Student, error) {
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
	st := &Student{
		LeadID:       dto.LeadID,
		Name:         dto.Name,
		Email:        dto.Email,
		Phone:        dto.Phone,
		PassportNo:   dto.PassportNo,
		Intake:       dto.Intake,
		Program:      dto.Program,
		UniversityID: dto.UniversityID,
		Status:       StatusEnrolled,
		Branch:       branch,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(st); err != nil {
		s.logger.Error("failed to create student", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create student", err)
	}

	s.logger.Info("student created", "student_id", st.ID, "branch", st.Branch, "user_id", actor.ID)
	return st, nil
}

func (s *Service) Get(actor *auth.User, id int64) (*Student, error) {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(id, scope)
}

func (s *Service) List(actor *auth.User, requestedBranch, status, intake string, limit, offset int) ([]*Student, error) {
	scope, err := s.resolver.BranchScope(actor, requestedBranch)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	students, err := s.repo.List(scope, status, intake, limit, offset)
	if err != nil {
		s.logger.Error("failed to list students", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list students", err)
	}
	return students, nil
}

func (s *Service) Update(actor *auth.User, id int64, dto UpdateStudentDTO) (*Student, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}

	st, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		st.Name = *dto.Name
	}
	if dto.Email != nil {
		st.Email = *dto.Email
	}
	if dto.Phone != nil {
		st.Phone = *dto.Phone
	}
	if dto.PassportNo != nil {
		st.PassportNo = *dto.PassportNo
	}
	if dto.Intake != nil {
		st.Intake = *dto.Intake
	}
	if dto.Program != nil {
		st.Program = *dto.Program
	}
	if dto.UniversityID != nil {
		st.UniversityID = dto.UniversityID
	}
	if dto.Status != nil {
		st.Status = *dto.Status
	}
	st.UpdatedAt = time.Now()

	if err := s.repo.Update(st, scope); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update student", "error", err, "student_id", id)
		return nil, internal.NewInternalError("failed to update student", err)
	}

	return st, nil
}

func (s *Service) Delete(actor *auth.User, id int64) error {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id, scope); err != nil {
		return err
	}
	s.logger.Info("student deleted", "student_id", id, "user_id", actor.ID)
	return nil
}
