package student

import (
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
)

// Module is the access-control module name gating every student route.
const Module = "students"

// Enrollment statuses.
const (
	StatusEnrolled  = "enrolled"
	StatusApplied   = "applied"
	StatusAdmitted  = "admitted"
	StatusCompleted = "completed"
	StatusWithdrawn = "withdrawn"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusEnrolled, StatusApplied, StatusAdmitted, StatusCompleted, StatusWithdrawn:
		return true
	}
	return false
}

// Student is a converted lead with admission details. LeadID is kept for
// traceability back into the funnel and may be nil for walk-in students.
type Student struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	LeadID       *int64    `json:"lead_id,omitempty" gorm:"column:lead_id"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PassportNo   string    `json:"passport_no" gorm:"column:passport_no"`
	Intake       string    `json:"intake"`
	Program      string    `json:"program"`
	UniversityID *int64    `json:"university_id,omitempty" gorm:"column:university_id"`
	Status       string    `json:"status" gorm:"default:enrolled"`
	Branch       string    `json:"branch"`
	CreatedBy    int64     `json:"created_by" gorm:"column:created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

var ErrStudentNotFound = internal.NewNotFoundError("Student not found", internal.ErrCodeStudentNotFound)

type Repository interface {
	Create(st *Student) error
	GetByID(id int64, scope auth.BranchScope) (*Student, error)
	List(scope auth.BranchScope, status, intake string, limit, offset int) ([]*Student, error)
	Update(st *Student, scope auth.BranchScope) error
	Delete(id int64, scope auth.BranchScope) error
}
