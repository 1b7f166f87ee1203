package user

import (
	"log/slog"
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo       Repository
	sessions   SessionDeleter
	resolver   *auth.Resolver
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, sessions SessionDeleter, resolver *auth.Resolver, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		sessions:   sessions,
		resolver:   resolver,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Create registers a new user. The role must exist in the hierarchy and may
// not outrank the acting admin.
func (s *Service) Create(actor *auth.User, dto CreateUserDTO) (*auth.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if err := s.checkAssignableRole(actor, dto.Role); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	u := &auth.User{
		Email:       dto.Email,
		Name:        dto.Name,
		Role:        dto.Role,
		Branch:      dto.Branch,
		Status:      auth.StatusActive,
		Permissions: permissionMap(dto.Permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(u, string(hash)); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to create user", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	if len(dto.Permissions) > 0 {
		if err := s.repo.ReplacePermissions(u.ID, dto.Permissions); err != nil {
			s.logger.Error("failed to store permissions", "error", err, "user_id", u.ID)
			return nil, internal.NewInternalError("failed to store permissions", err)
		}
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role, "actor_id", actor.ID)
	return u, nil
}

func (s *Service) Get(id int64) (*auth.User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(branch, role, status string, limit, offset int) ([]*auth.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	users, err := s.repo.List(branch, role, status, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// Update applies profile, role, branch and status changes. A transition that
// takes the user out of active revokes every live session so stale tokens
// stop verifying immediately.
func (s *Service) Update(actor *auth.User, id int64, dto UpdateUserDTO) (*auth.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Role != nil && *dto.Role != u.Role {
		if err := s.checkAssignableRole(actor, *dto.Role); err != nil {
			return nil, err
		}
		u.Role = *dto.Role
	}
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Branch != nil {
		u.Branch = *dto.Branch
	}

	wasActive := u.IsActive()
	if dto.Status != nil {
		u.Status = *dto.Status
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	if wasActive && !u.IsActive() {
		if err := s.sessions.DeleteSessionsForUser(id); err != nil {
			s.logger.Error("failed to revoke sessions", "error", err, "user_id", id)
			return nil, internal.NewInternalError("failed to revoke sessions", err)
		}
		s.logger.Info("sessions revoked", "user_id", id, "status", u.Status)
	}

	s.logger.Info("user updated", "user_id", id, "actor_id", actor.ID)
	return u, nil
}

// ReplacePermissions swaps the user's whole permission matrix atomically.
func (s *Service) ReplacePermissions(actor *auth.User, id int64, dto ReplacePermissionsDTO) (*auth.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}

	if err := s.repo.ReplacePermissions(id, dto.Permissions); err != nil {
		s.logger.Error("failed to replace permissions", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to replace permissions", err)
	}

	s.logger.Info("permissions replaced", "user_id", id, "modules", len(dto.Permissions), "actor_id", actor.ID)
	return s.repo.GetByID(id)
}

// ResetPassword sets a new password and revokes live sessions so stolen
// tokens die with the old credential.
func (s *Service) ResetPassword(actor *auth.User, id int64, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(id, string(hash)); err != nil {
		s.logger.Error("failed to reset password", "error", err, "user_id", id)
		return internal.NewInternalError("failed to reset password", err)
	}

	if err := s.sessions.DeleteSessionsForUser(id); err != nil {
		s.logger.Error("failed to revoke sessions", "error", err, "user_id", id)
		return internal.NewInternalError("failed to revoke sessions", err)
	}

	s.logger.Info("password reset", "user_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) checkAssignableRole(actor *auth.User, role string) error {
	h := s.resolver.Hierarchy()
	if !h.Known(role) {
		return internal.NewValidationError("unknown role: "+role, internal.ErrCodeValidationFailed)
	}
	if h.Rank(role) > h.Rank(actor.Role) {
		return internal.ErrRoleForbidden
	}
	return nil
}

func permissionMap(perms []auth.ModulePermission) map[string]auth.ModulePermission {
	if len(perms) == 0 {
		return nil
	}
	m := make(map[string]auth.ModulePermission, len(perms))
	for _, p := range perms {
		m[p.Module] = p
	}
	return m
}
