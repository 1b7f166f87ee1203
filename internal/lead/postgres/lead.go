package postgres

import (
	"errors"

	"github.com/edustride/crm-backend/internal/auth"
	"github.com/edustride/crm-backend/internal/lead"
	"gorm.io/gorm"
)

// LeadRepository implements lead.Repository using GORM. The branch scope is
// applied to every query that touches existing rows.
type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) lead.Repository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(l *lead.Lead) error {
	return r.db.Create(l).Error
}

func (r *LeadRepository) GetByID(id int64, scope auth.BranchScope) (*lead.Lead, error) {
	var l lead.Lead
	err := scope.Apply(r.db.Where("id = ?", id)).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lead.ErrLeadNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) List(scope auth.BranchScope, status string, limit, offset int) ([]*lead.Lead, error) {
	var leads []*lead.Lead
	q := scope.Apply(r.db.Model(&lead.Lead{}))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&leads).Error
	return leads, err
}

func (r *LeadRepository) Update(l *lead.Lead, scope auth.BranchScope) error {
	res := scope.Apply(r.db.Model(&lead.Lead{}).Where("id = ?", l.ID)).
		Updates(map[string]interface{}{
			"name":        l.Name,
			"email":       l.Email,
			"phone":       l.Phone,
			"country":     l.Country,
			"source":      l.Source,
			"status":      l.Status,
			"assigned_to": l.AssignedTo,
			"notes":       l.Notes,
			"updated_at":  l.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lead.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(id int64, scope auth.BranchScope) error {
	res := scope.Apply(r.db.Where("id = ?", id)).Delete(&lead.Lead{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lead.ErrLeadNotFound
	}
	return nil
}
