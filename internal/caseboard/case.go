package caseboard

import (
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
)

// Module is the access-control module name gating every case route.
const Module = "cases"

// Board columns. Moves are free-form between columns; ordering inside a
// column is a position integer with last-write-wins semantics.
const (
	ColumnTodo       = "todo"
	ColumnInProgress = "in_progress"
	ColumnReview     = "review"
	ColumnDone       = "done"
)

func ValidColumn(column string) bool {
	switch column {
	case ColumnTodo, ColumnInProgress, ColumnReview, ColumnDone:
		return true
	}
	return false
}

type Case struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Column      string     `json:"column" gorm:"column:board_column;default:todo"`
	Position    int        `json:"position"`
	AssignedTo  *int64     `json:"assigned_to,omitempty" gorm:"column:assigned_to"`
	DueDate     *time.Time `json:"due_date,omitempty" gorm:"column:due_date"`
	Branch      string     `json:"branch"`
	CreatedBy   int64      `json:"created_by" gorm:"column:created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Case) TableName() string {
	return "cases"
}

var ErrCaseNotFound = internal.NewNotFoundError("Case not found", internal.ErrCodeCaseNotFound)

type Repository interface {
	Create(c *Case) error
	GetByID(id int64, scope auth.BranchScope) (*Case, error)
	List(scope auth.BranchScope, column string, limit, offset int) ([]*Case, error)
	Update(c *Case, scope auth.BranchScope) error
	Move(id int64, column string, position int, scope auth.BranchScope) error
	Delete(id int64, scope auth.BranchScope) error
}
