package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/edustride/crm-backend/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentialsByEmail(email string) (*auth.Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var creds auth.Credentials
	query := `SELECT id, email, password_hash, status FROM users WHERE lower(email) = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&creds.UserID, &creds.Email, &creds.PasswordHash, &creds.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var user auth.User

	query := `SELECT id, email, name, role, COALESCE(branch, ''), status, created_at, updated_at
	          FROM users WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.Branch,
		&user.Status, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	permQuery := `SELECT module, access_level, can_add, can_edit, can_delete
	              FROM module_permissions WHERE user_id = ?`

	rows, err := r.db.Raw(permQuery, userID).Rows()
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	user.Permissions = perms
	return &user, nil
}

func (r *Repository) CreateSession(s *auth.Session) error {
	return r.db.Exec(
		`INSERT INTO sessions (user_id, token_hash, issued_at, expires_at) VALUES (?, ?, ?, ?)`,
		s.UserID, s.TokenHash, s.IssuedAt, s.ExpiresAt,
	).Error
}

func (r *Repository) SessionExistsByHash(hash string) (bool, error) {
	var exists int
	row := r.db.Raw(`SELECT 1 FROM sessions WHERE token_hash = ?`, hash).Row()
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Repository) DeleteSessionByHash(hash string) error {
	return r.db.Exec(`DELETE FROM sessions WHERE token_hash = ?`, hash).Error
}

func (r *Repository) DeleteSessionsForUser(userID int64) error {
	return r.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID).Error
}

// SweepExpiredSessions removes session rows whose expiry has passed. Called
// opportunistically from the seeder maintenance path; correctness never
// depends on it.
func (r *Repository) SweepExpiredSessions() error {
	return r.db.Exec(`DELETE FROM sessions WHERE expires_at < now()`).Error
}
