package voucher

import (
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
)

// Module is the access-control module name gating every voucher route.
const Module = "vouchers"

// Voucher types and statuses.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ApproverRole is the minimum role allowed to approve or reject a voucher.
const ApproverRole = "branch_director"

func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

type Voucher struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	VoucherNo  string     `json:"voucher_no" gorm:"column:voucher_no;uniqueIndex"`
	Type       string     `json:"type" gorm:"column:voucher_type"`
	Category   string     `json:"category"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency" gorm:"default:USD"`
	Notes      string     `json:"notes"`
	Status     string     `json:"status" gorm:"default:pending"`
	Branch     string     `json:"branch"`
	CreatedBy  int64      `json:"created_by" gorm:"column:created_by"`
	ApprovedBy *int64     `json:"approved_by,omitempty" gorm:"column:approved_by"`
	ApprovedAt *time.Time `json:"approved_at,omitempty" gorm:"column:approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

var (
	ErrVoucherNotFound   = internal.NewNotFoundError("Voucher not found", internal.ErrCodeVoucherNotFound)
	ErrDuplicateVoucher  = internal.NewConflictError("Voucher number already exists", internal.ErrCodeDuplicateVoucherNo)
	ErrVoucherNotPending = internal.NewValidationError("Voucher is not pending", internal.ErrCodeInvalidStatus)
)

type Repository interface {
	Create(v *Voucher) error
	GetByID(id int64, scope auth.BranchScope) (*Voucher, error)
	List(scope auth.BranchScope, voucherType, status string, limit, offset int) ([]*Voucher, error)
	SetStatus(id int64, status string, approvedBy int64, scope auth.BranchScope) error
	Delete(id int64, scope auth.BranchScope) error
}
