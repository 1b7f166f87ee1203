package postgres

import (
	"errors"
	"strings"

	"github.com/edustride/crm-backend/internal/branch"
	"gorm.io/gorm"
)

type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) branch.Repository {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) Create(b *branch.Branch) error {
	err := r.db.Create(b).Error
	if err != nil && (errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key")) {
		return branch.ErrDuplicateBranch
	}
	return err
}

func (r *BranchRepository) GetByID(id int64) (*branch.Branch, error) {
	var b branch.Branch
	err := r.db.Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, branch.ErrBranchNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) GetByCode(code string) (*branch.Branch, error) {
	var b branch.Branch
	err := r.db.Where("code = ?", code).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, branch.ErrBranchNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) List(limit, offset int) ([]*branch.Branch, error) {
	var branches []*branch.Branch
	err := r.db.Model(&branch.Branch{}).
		Order("code ASC").
		Limit(limit).
		Offset(offset).
		Find(&branches).Error
	return branches, err
}

func (r *BranchRepository) Update(b *branch.Branch) error {
	res := r.db.Model(&branch.Branch{}).Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"name":       b.Name,
			"city":       b.City,
			"country":    b.Country,
			"phone":      b.Phone,
			"address":    b.Address,
			"updated_at": b.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return branch.ErrBranchNotFound
	}
	return nil
}

func (r *BranchRepository) Delete(id int64) error {
	res := r.db.Where("id = ?", id).Delete(&branch.Branch{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return branch.ErrBranchNotFound
	}
	return nil
}
