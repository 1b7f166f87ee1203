package university

import (
	"time"

	"github.com/edustride/crm-backend/internal"
)

// Module is the access-control module name gating every university route.
const Module = "universities"

// University is global reference data shared by all branches, so the
// repository takes no branch scope.
type University struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	Country        string    `json:"country"`
	Programs       string    `json:"programs"`
	CommissionRate float64   `json:"commission_rate" gorm:"column:commission_rate"`
	Website        string    `json:"website"`
	CreatedBy      int64     `json:"created_by" gorm:"column:created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (University) TableName() string {
	return "universities"
}

var ErrUniversityNotFound = internal.NewNotFoundError("University not found", internal.ErrCodeUniversityNotFound)

type Repository interface {
	Create(u *University) error
	GetByID(id int64) (*University, error)
	List(country string, limit, offset int) ([]*University, error)
	Update(u *University) error
	Delete(id int64) error
}
