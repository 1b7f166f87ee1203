package university

import (
	"errors"
	"strings"
)

type CreateUniversityDTO struct {
	Name           string  `json:"name"`
	Country        string  `json:"country"`
	Programs       string  `json:"programs"`
	CommissionRate float64 `json:"commission_rate"`
	Website        string  `json:"website"`
}

func (dto *CreateUniversityDTO) Validate() error {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.CommissionRate < 0 || dto.CommissionRate > 100 {
		return errors.New("commission_rate must be between 0 and 100")
	}
	return nil
}

type UpdateUniversityDTO struct {
	Name           *string  `json:"name,omitempty"`
	Country        *string  `json:"country,omitempty"`
	Programs       *string  `json:"programs,omitempty"`
	CommissionRate *float64 `json:"commission_rate,omitempty"`
	Website        *string  `json:"website,omitempty"`
}

func (dto *UpdateUniversityDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if dto.CommissionRate != nil && (*dto.CommissionRate < 0 || *dto.CommissionRate > 100) {
		return errors.New("commission_rate must be between 0 and 100")
	}
	return nil
}
