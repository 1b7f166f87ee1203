package leave

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

// Apply files a leave request for the acting user in their own branch. There
// is no branch override on apply: a request always belongs to the branch of
// the requester.
func (s *Service) Apply(actor *auth.User, dto ApplyLeaveDTO) (*Leave, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if actor.Branch == "" {
		return nil, internal.NewValidationError("acting user has no branch", internal.ErrCodeInvalidBranch)
	}

	now := time.Now()
	l := &Leave{
		UserID:    actor.ID,
		Type:      dto.Type,
		StartDate: dto.StartDate,
		EndDate:   dto.EndDate,
		Reason:    dto.Reason,
		Status:    StatusPending,
		Branch:    actor.Branch,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(l); err != nil {
		s.logger.Error("failed to create leave request", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create leave request", err)
	}

	s.logger.Info("leave applied", "leave_id", l.ID, "type", l.Type, "user_id", actor.ID)
	return l, nil
}

func (s *Service) Get(actor *auth.User, id int64) (*Leave, error) {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(id, scope)
}

// List returns requests visible to the actor. Passing mine=true narrows to
// the actor's own requests regardless of role.
func (s *Service) List(actor *auth.User, requestedBranch, status string, mine bool, limit, offset int) ([]*Leave, error) {
	scope, err := s.resolver.BranchScope(actor, requestedBranch)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var userID int64
	if mine {
		userID = actor.ID
	}
	leaves, err := s.repo.List(scope, userID, status, limit, offset)
	if err != nil {
		s.logger.Error("failed to list leave requests", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list leave requests", err)
	}
	return leaves, nil
}

// Approve grants a pending request. The approver must hold at least the
// branch_director role and must not be the requester.
func (s *Service) Approve(actor *auth.User, id int64) (*Leave, error) {
	return s.decide(actor, id, StatusApproved)
}

func (s *Service) Reject(actor *auth.User, id int64) (*Leave, error) {
	return s.decide(actor, id, StatusRejected)
}

func (s *Service) decide(actor *auth.User, id int64, status string) (*Leave, error) {
	if !s.resolver.HasMinimumRole(actor, ApproverRole) {
		return nil, internal.ErrRoleForbidden
	}

	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}

	l, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	if l.UserID == actor.ID {
		return nil, ErrOwnLeave
	}
	if l.Status != StatusPending {
		return nil, ErrLeaveNotPending
	}

	if err := s.repo.SetStatus(id, status, actor.ID, scope); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update leave status", "error", err, "leave_id", id)
		return nil, internal.NewInternalError("failed to update leave status", err)
	}

	s.logger.Info("leave decided", "leave_id", id, "status", status, "decided_by", actor.ID)
	return s.repo.GetByID(id, scope)
}

// Cancel withdraws the actor's own pending request.
func (s *Service) Cancel(actor *auth.User, id int64) error {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return err
	}

	l, err := s.repo.GetByID(id, scope)
	if err != nil {
		return err
	}
	if l.UserID != actor.ID && !s.resolver.HasMinimumRole(actor, ApproverRole) {
		return internal.ErrRoleForbidden
	}
	if l.Status != StatusPending {
		return ErrLeaveNotPending
	}

	if err := s.repo.Delete(id, scope); err != nil {
		return err
	}
	s.logger.Info("leave cancelled", "leave_id", id, "user_id", actor.ID)
	return nil
}
