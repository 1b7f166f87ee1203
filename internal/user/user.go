package user

import (
	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
)

// Module is the access-control module name gating administrative user routes.
const Module = "users"

// AdminRole is the minimum role for user management.
const AdminRole = "admin"

var (
	ErrUserNotFound   = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	ErrDuplicateEmail = internal.NewConflictError("Email already registered", internal.ErrCodeValidationFailed)
)

// Repository covers administrative user persistence. The auth package owns
// session and credential reads; this repository owns the user rows and the
// permission matrix.
type Repository interface {
	Create(u *auth.User, passwordHash string) error
	GetByID(id int64) (*auth.User, error)
	List(branch, role, status string, limit, offset int) ([]*auth.User, error)
	Update(u *auth.User) error
	UpdatePassword(userID int64, passwordHash string) error
	ReplacePermissions(userID int64, perms []auth.ModulePermission) error
}

// SessionDeleter revokes every live session of a user. Implemented by the
// auth repository; used when a status transition takes a user out of active.
type SessionDeleter interface {
	DeleteSessionsForUser(userID int64) error
}
