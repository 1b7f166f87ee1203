package postgres

import (
	"errors"
	"time"

	"github.com/edustride/crm-backend/internal/auth"
	"github.com/edustride/crm-backend/internal/caseboard"
	"gorm.io/gorm"
)

type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) caseboard.Repository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(c *caseboard.Case) error {
	return r.db.Create(c).Error
}

func (r *CaseRepository) GetByID(id int64, scope auth.BranchScope) (*caseboard.Case, error) {
	var c caseboard.Case
	err := scope.Apply(r.db.Where("id = ?", id)).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, caseboard.ErrCaseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) List(scope auth.BranchScope, column string, limit, offset int) ([]*caseboard.Case, error) {
	var cases []*caseboard.Case
	q := scope.Apply(r.db.Model(&caseboard.Case{}))
	if column != "" {
		q = q.Where("board_column = ?", column)
	}
	err := q.Order("board_column ASC, position ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&cases).Error
	return cases, err
}

func (r *CaseRepository) Update(c *caseboard.Case, scope auth.BranchScope) error {
	res := scope.Apply(r.db.Model(&caseboard.Case{}).Where("id = ?", c.ID)).
		Updates(map[string]interface{}{
			"title":       c.Title,
			"description": c.Description,
			"assigned_to": c.AssignedTo,
			"due_date":    c.DueDate,
			"updated_at":  c.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return caseboard.ErrCaseNotFound
	}
	return nil
}

// Move is a single unconditional UPDATE. No version check: the last writer
// wins when two users drag the same card.
func (r *CaseRepository) Move(id int64, column string, position int, scope auth.BranchScope) error {
	res := scope.Apply(r.db.Model(&caseboard.Case{}).Where("id = ?", id)).
		Updates(map[string]interface{}{
			"board_column": column,
			"position":     position,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return caseboard.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepository) Delete(id int64, scope auth.BranchScope) error {
	res := scope.Apply(r.db.Where("id = ?", id)).Delete(&caseboard.Case{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return caseboard.ErrCaseNotFound
	}
	return nil
}
