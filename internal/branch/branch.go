package branch

import (
	"time"

	"github.com/edustride/crm-backend/internal"
)

// Module is the access-control module name gating every branch route. Routes
// are additionally gated to admin rank in the router.
const Module = "branches"

// AdminRole is the minimum role for branch management.
const AdminRole = "admin"

// Branch is reference data. Code is the short identifier every scoped row
// stores in its branch column.
type Branch struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"not null"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Branch) TableName() string {
	return "branches"
}

var (
	ErrBranchNotFound  = internal.NewNotFoundError("Branch not found", internal.ErrCodeBranchNotFound)
	ErrDuplicateBranch = internal.NewConflictError("Branch code already exists", internal.ErrCodeInvalidBranch)
)

type Repository interface {
	Create(b *Branch) error
	GetByID(id int64) (*Branch, error)
	GetByCode(code string) (*Branch, error)
	List(limit, offset int) ([]*Branch, error)
	Update(b *Branch) error
	Delete(id int64) error
}
