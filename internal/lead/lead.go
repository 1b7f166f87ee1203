package lead

import (
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
)

// Module is the access-control module name gating every lead route.
const Module = "leads"

// Lead statuses form a simple funnel; converted and lost are terminal.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusLost      = "lost"
)

type Lead struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Country    string    `json:"country"`
	Source     string    `json:"source"`
	Status     string    `json:"status" gorm:"default:new"`
	AssignedTo *int64    `json:"assigned_to,omitempty" gorm:"column:assigned_to"`
	Branch     string    `json:"branch"`
	Notes      string    `json:"notes"`
	CreatedBy  int64     `json:"created_by" gorm:"column:created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

func (l *Lead) IsTerminal() bool {
	return l.Status == StatusConverted || l.Status == StatusLost
}

// CanTransition reports whether the funnel allows moving to the target
// status. Any non-terminal lead may be marked lost.
func (l *Lead) CanTransition(target string) bool {
	if l.IsTerminal() {
		return false
	}
	switch target {
	case StatusContacted:
		return l.Status == StatusNew
	case StatusQualified:
		return l.Status == StatusContacted
	case StatusConverted:
		return l.Status == StatusQualified
	case StatusLost:
		return true
	}
	return false
}

var ErrLeadNotFound = internal.NewNotFoundError("Lead not found", internal.ErrCodeLeadNotFound)

// Repository is the data access surface. Every method that touches existing
// rows takes the caller's branch scope so reads and writes are constrained
// identically.
type Repository interface {
	Create(l *Lead) error
	GetByID(id int64, scope auth.BranchScope) (*Lead, error)
	List(scope auth.BranchScope, status string, limit, offset int) ([]*Lead, error)
	Update(l *Lead, scope auth.BranchScope) error
	Delete(id int64, scope auth.BranchScope) error
}
