package leave

import (
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
)

// Module is the access-control module name gating every leave route.
const Module = "leaves"

// Leave types and request statuses.
const (
	TypeCasual = "casual"
	TypeSick   = "sick"
	TypeAnnual = "annual"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ApproverRole is the minimum role allowed to decide a leave request.
const ApproverRole = "branch_director"

func ValidType(t string) bool {
	switch t {
	case TypeCasual, TypeSick, TypeAnnual:
		return true
	}
	return false
}

type Leave struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	UserID    int64      `json:"user_id" gorm:"column:user_id"`
	Type      string     `json:"type" gorm:"column:leave_type"`
	StartDate time.Time  `json:"start_date" gorm:"column:start_date"`
	EndDate   time.Time  `json:"end_date" gorm:"column:end_date"`
	Reason    string     `json:"reason"`
	Status    string     `json:"status" gorm:"default:pending"`
	Branch    string     `json:"branch"`
	DecidedBy *int64     `json:"decided_by,omitempty" gorm:"column:decided_by"`
	DecidedAt *time.Time `json:"decided_at,omitempty" gorm:"column:decided_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Leave) TableName() string {
	return "leaves"
}

var (
	ErrLeaveNotFound   = internal.NewNotFoundError("Leave request not found", internal.ErrCodeLeaveNotFound)
	ErrLeaveNotPending = internal.NewValidationError("Leave request is not pending", internal.ErrCodeInvalidStatus)
	ErrOwnLeave        = internal.NewForbiddenError("Cannot decide your own leave request", internal.ErrCodeRoleForbidden)
)

type Repository interface {
	Create(l *Leave) error
	GetByID(id int64, scope auth.BranchScope) (*Leave, error)
	List(scope auth.BranchScope, userID int64, status string, limit, offset int) ([]*Leave, error)
	SetStatus(id int64, status string, decidedBy int64, scope auth.BranchScope) error
	Delete(id int64, scope auth.BranchScope) error
}
