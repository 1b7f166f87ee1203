package caseboard

import (
	"errors"
	"strings"
	"time"
)

type CreateCaseDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Column      string     `json:"column,omitempty"`
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Branch      string     `json:"branch,omitempty"`
}

func (dto *CreateCaseDTO) Validate() error {
	dto.Title = strings.TrimSpace(dto.Title)
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.Column == "" {
		dto.Column = ColumnTodo
	}
	if !ValidColumn(dto.Column) {
		return errors.New("column is invalid")
	}
	return nil
}

type UpdateCaseDTO struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (dto *UpdateCaseDTO) Validate() error {
	if dto.Title != nil && strings.TrimSpace(*dto.Title) == "" {
		return errors.New("title cannot be empty")
	}
	return nil
}

// MoveCaseDTO carries a drag-and-drop move. The write is last-write-wins;
// concurrent moves of the same card resolve to whichever update lands last.
type MoveCaseDTO struct {
	Column   string `json:"column"`
	Position int    `json:"position"`
}

func (dto *MoveCaseDTO) Validate() error {
	if !ValidColumn(dto.Column) {
		return errors.New("column is invalid")
	}
	if dto.Position < 0 {
		return errors.New("position cannot be negative")
	}
	return nil
}
