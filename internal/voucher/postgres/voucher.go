package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/edustride/crm-backend/internal/auth"
	"github.com/edustride/crm-backend/internal/voucher"
	"gorm.io/gorm"
)

type VoucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) voucher.Repository {
	return &VoucherRepository{db: db}
}

func (r *VoucherRepository) Create(v *voucher.Voucher) error {
	err := r.db.Create(v).Error
	if err != nil && isDuplicateKey(err) {
		return voucher.ErrDuplicateVoucher
	}
	return err
}

// isDuplicateKey matches both GORM's translated error and the raw postgres
// unique violation message, since error translation depends on dialector
// configuration.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

func (r *VoucherRepository) GetByID(id int64, scope auth.BranchScope) (*voucher.Voucher, error) {
	var v voucher.Voucher
	err := scope.Apply(r.db.Where("id = ?", id)).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, voucher.ErrVoucherNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VoucherRepository) List(scope auth.BranchScope, voucherType, status string, limit, offset int) ([]*voucher.Voucher, error) {
	var vouchers []*voucher.Voucher
	q := scope.Apply(r.db.Model(&voucher.Voucher{}))
	if voucherType != "" {
		q = q.Where("voucher_type = ?", voucherType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&vouchers).Error
	return vouchers, err
}

func (r *VoucherRepository) SetStatus(id int64, status string, approvedBy int64, scope auth.BranchScope) error {
	now := time.Now()
	res := scope.Apply(r.db.Model(&voucher.Voucher{}).Where("id = ?", id)).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_by": approvedBy,
			"approved_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return voucher.ErrVoucherNotFound
	}
	return nil
}

func (r *VoucherRepository) Delete(id int64, scope auth.BranchScope) error {
	res := scope.Apply(r.db.Where("id = ?", id)).Delete(&voucher.Voucher{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return voucher.ErrVoucherNotFound
	}
	return nil
}
