package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/edustride/crm-backend/internal/auth"
	"github.com/edustride/crm-backend/internal/user"
	"gorm.io/gorm"
)

// UserRepository owns user rows and the module permission matrix, raw SQL
// like the auth repository so the two stay readable side by side.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *auth.User, passwordHash string) error {
	query := `INSERT INTO users (email, password_hash, name, role, branch, status, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	row := r.db.Raw(query,
		u.Email, passwordHash, u.Name, u.Role, u.Branch, u.Status, u.CreatedAt, u.UpdatedAt,
	).Row()
	if err := row.Scan(&u.ID); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return user.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(id int64) (*auth.User, error) {
	var u auth.User

	query := `SELECT id, email, name, role, COALESCE(branch, ''), status, created_at, updated_at
	          FROM users WHERE id = ?`

	row := r.db.Raw(query, id).Row()
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Branch,
		&u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}

	perms, err := r.permissions(id)
	if err != nil {
		return nil, err
	}
	u.Permissions = perms
	return &u, nil
}

func (r *UserRepository) List(branch, role, status string, limit, offset int) ([]*auth.User, error) {
	query := `SELECT id, email, name, role, COALESCE(branch, ''), status, created_at, updated_at FROM users`
	var conds []string
	var args []interface{}
	if branch != "" {
		conds = append(conds, "branch = ?")
		args = append(args, branch)
	}
	if role != "" {
		conds = append(conds, "role = ?")
		args = append(args, role)
	}
	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		var u auth.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Branch,
			&u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(u *auth.User) error {
	res := r.db.Exec(
		`UPDATE users SET name = ?, role = ?, branch = ?, status = ?, updated_at = ? WHERE id = ?`,
		u.Name, u.Role, u.Branch, u.Status, u.UpdatedAt, u.ID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(userID int64, passwordHash string) error {
	res := r.db.Exec(
		`UPDATE users SET password_hash = ?, updated_at = now() WHERE id = ?`,
		passwordHash, userID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ReplacePermissions swaps the whole matrix in one transaction so a verifier
// never observes a half-written permission set.
func (r *UserRepository) ReplacePermissions(userID int64, perms []auth.ModulePermission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM module_permissions WHERE user_id = ?`, userID).Error; err != nil {
			return err
		}
		for _, p := range perms {
			err := tx.Exec(
				`INSERT INTO module_permissions (user_id, module, access_level, can_add, can_edit, can_delete)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				userID, p.Module, p.AccessLevel, p.CanAdd, p.CanEdit, p.CanDelete,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) permissions(userID int64) (map[string]auth.ModulePermission, error) {
	rows, err := r.db.Raw(
		`SELECT module, access_level, can_add, can_edit, can_delete FROM module_permissions WHERE user_id = ?`,
		userID,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := make(map[string]auth.ModulePermission)
	for rows.Next() {
		var p auth.ModulePermission
		if err := rows.Scan(&p.Module, &p.AccessLevel, &p.CanAdd, &p.CanEdit, &p.CanDelete); err != nil {
			return nil, err
		}
		p.Module = auth.NormalizeModule(p.Module)
		perms[p.Module] = p
	}
	return perms, rows.Err()
}
