package postgres

import (
	"errors"

	"github.com/edustride/crm-backend/internal/university"
	"gorm.io/gorm"
)

type UniversityRepository struct {
	db *gorm.DB
}

func NewUniversityRepository(db *gorm.DB) university.Repository {
	return &UniversityRepository{db: db}
}

func (r *UniversityRepository) Create(u *university.University) error {
	return r.db.Create(u).Error
}

func (r *UniversityRepository) GetByID(id int64) (*university.University, error) {
	var u university.University
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, university.ErrUniversityNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UniversityRepository) List(country string, limit, offset int) ([]*university.University, error) {
	var universities []*university.University
	q := r.db.Model(&university.University{})
	if country != "" {
		q = q.Where("country = ?", country)
	}
	err := q.Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&universities).Error
	return universities, err
}

func (r *UniversityRepository) Update(u *university.University) error {
	res := r.db.Model(&university.University{}).Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"name":            u.Name,
			"country":         u.Country,
			"programs":        u.Programs,
			"commission_rate": u.CommissionRate,
			"website":         u.Website,
			"updated_at":      u.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return university.ErrUniversityNotFound
	}
	return nil
}

func (r *UniversityRepository) Delete(id int64) error {
	res := r.db.Where("id = ?", id).Delete(&university.University{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return university.ErrUniversityNotFound
	}
	return nil
}
