package auth

// RoleHierarchy is an immutable ranked mapping from role name to privilege
// level. It is loaded once from config and injected; unknown roles rank 0 and
// carry no implicit privilege.
type RoleHierarchy struct {
	ranks map[string]int
	top   int
}

// DefaultRoleRanks is the hierarchy used when config does not override it.
var DefaultRoleRanks = map[string]int{
	"super_admin":     100,
	"admin":           80,
	"branch_director": 60,
	"counselor":       40,
	"receptionist":    20,
}

func NewRoleHierarchy(ranks map[string]int) RoleHierarchy {
	if len(ranks) == 0 {
		ranks = DefaultRoleRanks
	}
	copied := make(map[string]int, len(ranks))
	top := 0
	for role, rank := range ranks {
		role = NormalizeRole(role)
		if role == "" || rank <= 0 {
			continue
		}
		copied[role] = rank
		if rank > top {
			top = rank
		}
	}
	return RoleHierarchy{ranks: copied, top: top}
}

func DefaultRoleHierarchy() RoleHierarchy {
	return NewRoleHierarchy(DefaultRoleRanks)
}

// Rank returns the privilege level for a role; unknown roles resolve to 0.
func (h RoleHierarchy) Rank(role string) int {
	return h.ranks[NormalizeRole(role)]
}

// TopRank is the highest rank present in the hierarchy.
func (h RoleHierarchy) TopRank() int {
	return h.top
}

// IsTopRank reports whether the role sits at the highest privilege level.
func (h RoleHierarchy) IsTopRank(role string) bool {
	return h.top > 0 && h.Rank(role) == h.top
}

// Known reports whether the role appears in the hierarchy at all.
func (h RoleHierarchy) Known(role string) bool {
	_, ok := h.ranks[NormalizeRole(role)]
	return ok
}

// HasMinimumRole answers "is role at least as privileged as the required
// set". Rank comparison is the primary semantic; literal membership in the
// required set is the fallback so exact-match call sites keep working.
func (h RoleHierarchy) HasMinimumRole(role string, required ...string) bool {
	if len(required) == 0 {
		return false
	}
	normalized := NormalizeRole(role)
	max := 0
	for _, req := range required {
		if NormalizeRole(req) == normalized {
			return true
		}
		if rank := h.Rank(req); rank > max {
			max = rank
		}
	}
	if max == 0 {
		return false
	}
	return h.Rank(role) >= max
}
