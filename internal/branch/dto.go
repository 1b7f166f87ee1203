package branch

import (
	"errors"
	"strings"
)

type CreateBranchDTO struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (dto *CreateBranchDTO) Validate() error {
	dto.Code = strings.ToLower(strings.TrimSpace(dto.Code))
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Code == "" {
		return errors.New("code is required")
	}
	if strings.ContainsAny(dto.Code, " \t") {
		return errors.New("code cannot contain whitespace")
	}
	if dto.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type UpdateBranchDTO struct {
	Name    *string `json:"name,omitempty"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (dto *UpdateBranchDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}
