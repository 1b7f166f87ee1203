package auth

import "github.com/edustride/crm-backend/internal"

// Resolver answers the three access questions every route asks: minimum role,
// module/operation permission, and branch scope. It is stateless; every call
// works over the permission snapshot carried by the User it is handed.
type Resolver struct {
	hierarchy RoleHierarchy
}

func NewResolver(hierarchy RoleHierarchy) *Resolver {
	return &Resolver{hierarchy: hierarchy}
}

func (r *Resolver) Hierarchy() RoleHierarchy {
	return r.hierarchy
}

// HasMinimumRole reports whether the user's role satisfies the required set.
func (r *Resolver) HasMinimumRole(u *User, required ...string) bool {
	if u == nil {
		return false
	}
	return r.hierarchy.HasMinimumRole(u.Role, required...)
}

// CanAccessModule decides module access. Precedence:
//  1. top-rank role: always allowed;
//  2. no permission row for the module: denied;
//  3. no operation requested: allowed unless the access level is none;
//  4. operation requested: explicit flag wins, otherwise the coarse level
//     must be crud.
func (r *Resolver) CanAccessModule(u *User, module string, op Operation) bool {
	if u == nil {
		return false
	}
	if r.hierarchy.IsTopRank(u.Role) {
		return true
	}
	perm, ok := u.Permission(module)
	if !ok {
		return false
	}
	if op == "" {
		return perm.AccessLevel != AccessNone
	}
	if flag := operationFlag(perm, op); flag != nil {
		return *flag
	}
	return perm.AccessLevel == AccessCRUD
}

func operationFlag(perm ModulePermission, op Operation) *bool {
	switch op {
	case OpAdd:
		return perm.CanAdd
	case OpEdit:
		return perm.CanEdit
	case OpDelete:
		return perm.CanDelete
	}
	return nil
}

// BranchScope resolves the branch constraint for a request. Top-rank roles
// see everything unless they ask for a specific branch; everyone else is
// pinned to their own branch, and asking for a different one is a hard
// denial, never a silent empty result.
func (r *Resolver) BranchScope(u *User, requestedBranch string) (BranchScope, error) {
	if u == nil {
		return BranchScope{}, internal.ErrBranchForbidden
	}
	if r.hierarchy.IsTopRank(u.Role) {
		if requestedBranch != "" {
			return FixedTo(requestedBranch), nil
		}
		return Unrestricted(), nil
	}
	if requestedBranch != "" && requestedBranch != u.Branch {
		return BranchScope{}, internal.ErrBranchForbidden
	}
	return FixedTo(u.Branch), nil
}
