package voucher

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	resolver *auth.Resolver
	logger   *slog.Logger
}

func NewService(repo Repository, resolver *auth.Resolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, logger: logger}
}

// newVoucherNo builds a human-readable unique number. The uuid fragment keeps
// collisions out without a sequence table.
func newVoucherNo(voucherType string) string {
	prefix := "EXP"
	if voucherType == TypeIncome {
		prefix = "INC"
	}
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), frag)
}

func (s *Service) Create(actor *auth.User, dto CreateVoucherDTO) (*Voucher, error) {
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

	voucherNo := dto.VoucherNo
	if voucherNo == "" {
		voucherNo = newVoucherNo(dto.Type)
	}

	now := time.Now()
	v := &Voucher{
		VoucherNo: voucherNo,
		Type:      dto.Type,
		Category:  dto.Category,
		Amount:    dto.Amount,
		Currency:  dto.Currency,
		Notes:     dto.Notes,
		Status:    StatusPending,
		Branch:    branch,
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(v); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to create voucher", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create voucher", err)
	}

	s.logger.Info("voucher created", "voucher_id", v.ID, "voucher_no", v.VoucherNo, "branch", v.Branch, "user_id", actor.ID)
	return v, nil
}

func (s *Service) Get(actor *auth.User, id int64) (*Voucher, error) {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(id, scope)
}

func (s *Service) List(actor *auth.User, requestedBranch, voucherType, status string, limit, offset int) ([]*Voucher, error) {
	scope, err := s.resolver.BranchScope(actor, requestedBranch)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	vouchers, err := s.repo.List(scope, voucherType, status, limit, offset)
	if err != nil {
		s.logger.Error("failed to list vouchers", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list vouchers", err)
	}
	return vouchers, nil
}

// Approve moves a pending voucher to approved. Only roles at or above
// branch_director may approve, and only within their branch scope.
func (s *Service) Approve(actor *auth.User, id int64) (*Voucher, error) {
	return s.decide(actor, id, StatusApproved)
}

func (s *Service) Reject(actor *auth.User, id int64) (*Voucher, error) {
	return s.decide(actor, id, StatusRejected)
}

func (s *Service) decide(actor *auth.User, id int64, status string) (*Voucher, error) {
	if !s.resolver.HasMinimumRole(actor, ApproverRole) {
		return nil, internal.ErrRoleForbidden
	}

	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return nil, err
	}

	v, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	if v.Status != StatusPending {
		return nil, ErrVoucherNotPending
	}

	if err := s.repo.SetStatus(id, status, actor.ID, scope); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update voucher status", "error", err, "voucher_id", id)
		return nil, internal.NewInternalError("failed to update voucher status", err)
	}

	s.logger.Info("voucher decided", "voucher_id", id, "status", status, "approved_by", actor.ID)
	return s.repo.GetByID(id, scope)
}

func (s *Service) Delete(actor *auth.User, id int64) error {
	scope, err := s.resolver.BranchScope(actor, "")
	if err != nil {
		return err
	}

	v, err := s.repo.GetByID(id, scope)
	if err != nil {
		return err
	}
	if v.Status == StatusApproved {
		return internal.NewValidationError("approved vouchers cannot be deleted", internal.ErrCodeInvalidStatus)
	}

	if err := s.repo.Delete(id, scope); err != nil {
		return err
	}
	s.logger.Info("voucher deleted", "voucher_id", id, "user_id", actor.ID)
	return nil
}
