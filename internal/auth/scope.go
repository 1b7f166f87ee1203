package auth

import "gorm.io/gorm"

// BranchScope is the resolved visibility constraint for a request. It is
// derived, never stored: top-rank roles get Unrestricted (or a pinned
// override), everyone else is fixed to their own branch.
type BranchScope struct {
	unrestricted bool
	branch       string
}

func Unrestricted() BranchScope {
	return BranchScope{unrestricted: true}
}

func FixedTo(branch string) BranchScope {
	return BranchScope{branch: branch}
}

func (s BranchScope) IsUnrestricted() bool {
	return s.unrestricted
}

// Branch returns the pinned branch and whether the scope is fixed at all.
func (s BranchScope) Branch() (string, bool) {
	if s.unrestricted {
		return "", false
	}
	return s.branch, true
}

// Apply constrains a query to the scope. The same call guards read and write
// paths so a non-privileged user can never mutate a row it cannot list.
func (s BranchScope) Apply(db *gorm.DB) *gorm.DB {
	if s.unrestricted {
		return db
	}
	return db.Where("branch = ?", s.branch)
}
