package voucher

import (
	"errors"
	"strings"
)

type CreateVoucherDTO struct {
	VoucherNo string  `json:"voucher_no,omitempty"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	Branch    string  `json:"branch,omitempty"`
}

func (dto *CreateVoucherDTO) Validate() error {
	dto.VoucherNo = strings.TrimSpace(dto.VoucherNo)
	if !ValidType(dto.Type) {
		return errors.New("type must be income or expense")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if strings.TrimSpace(dto.Category) == "" {
		return errors.New("category is required")
	}
	if dto.Currency == "" {
		dto.Currency = "USD"
	}
	return nil
}
