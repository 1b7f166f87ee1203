package student

import (
	"errors"
	"strings"
)

type CreateStudentDTO struct {
	LeadID       *int64 `json:"lead_id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PassportNo   string `json:"passport_no"`
	Intake       string `json:"intake"`
	Program      string `json:"program"`
	UniversityID *int64 `json:"university_id,omitempty"`
	Branch       string `json:"branch,omitempty"`
}

func (dto *CreateStudentDTO) Validate() error {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Email == "" && dto.Phone == "" {
		return errors.New("email or phone is required")
	}
	return nil
}

type UpdateStudentDTO struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	PassportNo   *string `json:"passport_no,omitempty"`
	Intake       *string `json:"intake,omitempty"`
	Program      *string `json:"program,omitempty"`
	UniversityID *int64  `json:"university_id,omitempty"`
	Status       *string `json:"status,omitempty"`
}

func (dto *UpdateStudentDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Status != nil && !ValidStatus(*dto.Status) {
		return errors.New("status is invalid")
	}
	if dto.Email != nil {
		*dto.Email = strings.ToLower(strings.TrimSpace(*dto.Email))
	}
	return nil
}
