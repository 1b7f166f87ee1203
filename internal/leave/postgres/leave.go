package postgres

import (
	"errors"
	"time"

	"github.com/edustride/crm-backend/internal/auth"
	"github.com/edustride/crm-backend/internal/leave"
	"gorm.io/gorm"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(l *leave.Leave) error {
	return r.db.Create(l).Error
}

func (r *LeaveRepository) GetByID(id int64, scope auth.BranchScope) (*leave.Leave, error) {
	var l leave.Leave
	err := scope.Apply(r.db.Where("id = ?", id)).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leave.ErrLeaveNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *LeaveRepository) List(scope auth.BranchScope, userID int64, status string, limit, offset int) ([]*leave.Leave, error) {
	var leaves []*leave.Leave
	q := scope.Apply(r.db.Model(&leave.Leave{}))
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&leaves).Error
	return leaves, err
}

func (r *LeaveRepository) SetStatus(id int64, status string, decidedBy int64, scope auth.BranchScope) error {
	now := time.Now()
	res := scope.Apply(r.db.Model(&leave.Leave{}).Where("id = ?", id)).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

func (r *LeaveRepository) Delete(id int64, scope auth.BranchScope) error {
	res := scope.Apply(r.db.Where("id = ?", id)).Delete(&leave.Leave{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}
