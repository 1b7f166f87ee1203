package auth

import (
	"context"
	"strings"
	"time"
)

// User statuses. Anything other than active must never hold a valid session.
const (
	StatusActive   = "active"
	StatusDormant  = "dormant"
	StatusInactive = "inactive"
)

// Module access levels stored per user and module.
const (
	AccessNone = "none"
	AccessView = "view"
	AccessCRUD = "crud"
)

// Operation names the fine-grained module operations that can be toggled
// independently of the coarse access level.
type Operation string

const (
	OpAdd    Operation = "add"
	OpEdit   Operation = "edit"
	OpDelete Operation = "delete"
)

// ModulePermission is one row of the per-user permission matrix. The explicit
// booleans, when present, override the coarse access level for that operation.
type ModulePermission struct {
	Module      string `json:"module"`
	AccessLevel string `json:"access_level"`
	CanAdd      *bool  `json:"can_add,omitempty"`
	CanEdit     *bool  `json:"can_edit,omitempty"`
	CanDelete   *bool  `json:"can_delete,omitempty"`
}

// User is the canonical identity context. Both ID and Email are always
// populated after lookup; downstream checks reference whichever they need by
// name, never positionally.
type User struct {
	ID          int64                       `json:"id"`
	Email       string                      `json:"email"`
	Name        string                      `json:"name"`
	Role        string                      `json:"role"`
	Branch      string                      `json:"branch,omitempty"`
	Status      string                      `json:"status"`
	Permissions map[string]ModulePermission `json:"permissions,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Permission returns the module row for the named module, if any.
func (u *User) Permission(module string) (ModulePermission, bool) {
	p, ok := u.Permissions[NormalizeModule(module)]
	return p, ok
}

// NormalizeModule lower-cases and trims a module name so lookups are
// insensitive to how the caller spells it.
func NormalizeModule(module string) string {
	return strings.ToLower(strings.TrimSpace(module))
}

// NormalizeRole canonicalizes a role name: lower case, trimmed, spaces
// collapsed to underscores ("Branch Director" and "branch_director" rank the
// same).
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	return strings.ReplaceAll(role, " ", "_")
}

type ctxKey string

const ContextUserKey ctxKey = "user"

// UserFromContext extracts the authenticated user placed by the auth
// middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

// ContextWithUser attaches the authenticated user to the context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
