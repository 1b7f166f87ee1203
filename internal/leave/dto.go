package leave

import (
	"errors"
	"strings"
	"time"
)

type ApplyLeaveDTO struct {
	Type      string    `json:"type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

func (dto *ApplyLeaveDTO) Validate() error {
	if !ValidType(dto.Type) {
		return errors.New("type must be casual, sick or annual")
	}
	if dto.StartDate.IsZero() || dto.EndDate.IsZero() {
		return errors.New("start_date and end_date are required")
	}
	if dto.EndDate.Before(dto.StartDate) {
		return errors.New("end_date cannot be before start_date")
	}
	if strings.TrimSpace(dto.Reason) == "" {
		return errors.New("reason is required")
	}
	return nil
}
