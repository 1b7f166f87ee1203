package lead

import (
	"errors"
	"strings"
)

type CreateLeadDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	Source     string `json:"source"`
	AssignedTo *int64 `json:"assigned_to,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Notes      string `json:"notes"`
}

func (dto *CreateLeadDTO) Validate() error {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return errors.New("name is required")
	}
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	if dto.Email != "" && !strings.Contains(dto.Email, "@") {
		return errors.New("email is invalid")
	}
	if dto.Email == "" && strings.TrimSpace(dto.Phone) == "" {
		return errors.New("either email or phone is required")
	}
	return nil
}

type UpdateLeadDTO struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Country    *string `json:"country,omitempty"`
	Source     *string `json:"source,omitempty"`
	Status     *string `json:"status,omitempty"`
	AssignedTo *int64  `json:"assigned_to,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func (dto *UpdateLeadDTO) Validate() error {
	if dto.Status != nil {
		switch *dto.Status {
		case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost:
		default:
			return errors.New("status is invalid")
		}
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}
