package user

import (
	"errors"
	"strings"

	"github.com/edustride/crm-backend/internal/auth"
)

type CreateUserDTO struct {
	Email       string                  `json:"email"`
	Password    string                  `json:"password"`
	Name        string                  `json:"name"`
	Role        string                  `json:"role"`
	Branch      string                  `json:"branch,omitempty"`
	Permissions []auth.ModulePermission `json:"permissions,omitempty"`
}

func (dto *CreateUserDTO) Validate() error {
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Role = auth.NormalizeRole(dto.Role)
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Role == "" {
		return errors.New("role is required")
	}
	return validatePermissions(dto.Permissions)
}

type UpdateUserDTO struct {
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	Branch *string `json:"branch,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (dto *UpdateUserDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Role != nil {
		*dto.Role = auth.NormalizeRole(*dto.Role)
		if *dto.Role == "" {
			return errors.New("role cannot be empty")
		}
	}
	if dto.Status != nil {
		switch *dto.Status {
		case auth.StatusActive, auth.StatusDormant, auth.StatusInactive:
		default:
			return errors.New("status must be active, dormant or inactive")
		}
	}
	return nil
}

type ReplacePermissionsDTO struct {
	Permissions []auth.ModulePermission `json:"permissions"`
}

func (dto *ReplacePermissionsDTO) Validate() error {
	return validatePermissions(dto.Permissions)
}

type ResetPasswordDTO struct {
	Password string `json:"password"`
}

func (dto *ResetPasswordDTO) Validate() error {
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

func validatePermissions(perms []auth.ModulePermission) error {
	seen := make(map[string]bool, len(perms))
	for i := range perms {
		perms[i].Module = auth.NormalizeModule(perms[i].Module)
		if perms[i].Module == "" {
			return errors.New("permission module name is required")
		}
		if seen[perms[i].Module] {
			return errors.New("duplicate permission module: " + perms[i].Module)
		}
		seen[perms[i].Module] = true
		switch perms[i].AccessLevel {
		case auth.AccessNone, auth.AccessView, auth.AccessCRUD:
		default:
			return errors.New("access_level must be none, view or crud")
		}
	}
	return nil
}
