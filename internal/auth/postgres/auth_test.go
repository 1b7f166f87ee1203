package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/edustride/crm-backend/internal/auth"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

func TestGetCredentialsByEmail(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "status"}).
		AddRow(int64(7), "counselor@example.com", "$2a$10$hash", auth.StatusActive)
	mock.ExpectQuery("SELECT id, email, password_hash, status FROM users WHERE lower").
		WithArgs("counselor@example.com").
		WillReturnRows(rows)

	creds, err := repo.GetCredentialsByEmail("  Counselor@Example.COM ")
	if err != nil {
		t.Fatalf("GetCredentialsByEmail: %v", err)
	}
	if creds.UserID != 7 {
		t.Fatalf("unexpected user id: %d", creds.UserID)
	}
	if creds.Status != auth.StatusActive {
		t.Fatalf("unexpected status: %s", creds.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetCredentialsByEmailNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectQuery("SELECT id, email, password_hash, status FROM users WHERE lower").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "status"}))

	_, err := repo.GetCredentialsByEmail("nobody@example.com")
	if !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUserWithPermissions(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	now := time.Now()
	userRows := sqlmock.NewRows([]string{"id", "email", "name", "role", "branch", "status", "created_at", "updated_at"}).
		AddRow(int64(7), "counselor@example.com", "Counselor", "counselor", "dhk", auth.StatusActive, now, now)
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(userRows)

	permRows := sqlmock.NewRows([]string{"module", "access_level", "can_add", "can_edit", "can_delete"}).
		AddRow("Leads", auth.AccessCRUD, nil, false, nil).
		AddRow("cases", auth.AccessView, true, nil, nil)
	mock.ExpectQuery("FROM module_permissions WHERE user_id").
		WithArgs(int64(7)).
		WillReturnRows(permRows)

	user, err := repo.GetUserWithPermissions(7)
	if err != nil {
		t.Fatalf("GetUserWithPermissions: %v", err)
	}
	if user.Branch != "dhk" {
		t.Fatalf("unexpected branch: %s", user.Branch)
	}

	// Module names come back normalized.
	leads, ok := user.Permissions["leads"]
	if !ok {
		t.Fatalf("expected leads permission, got %v", user.Permissions)
	}
	if leads.CanEdit == nil || *leads.CanEdit {
		t.Fatalf("expected can_edit=false, got %v", leads.CanEdit)
	}
	cases, ok := user.Permissions["cases"]
	if !ok || cases.CanAdd == nil || !*cases.CanAdd {
		t.Fatalf("expected cases can_add=true, got %+v", cases)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	now := time.Now()
	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(int64(7), "hash-a", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateSession(&auth.Session{
		UserID:    7,
		TokenHash: "hash-a",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	mock.ExpectQuery("SELECT 1 FROM sessions WHERE token_hash").
		WithArgs("hash-a").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.SessionExistsByHash("hash-a")
	if err != nil || !exists {
		t.Fatalf("expected session to exist, got exists=%v err=%v", exists, err)
	}

	mock.ExpectQuery("SELECT 1 FROM sessions WHERE token_hash").
		WithArgs("hash-b").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.SessionExistsByHash("hash-b")
	if err != nil {
		t.Fatalf("SessionExistsByHash: %v", err)
	}
	if exists {
		t.Fatal("expected missing session to report false")
	}

	mock.ExpectExec("DELETE FROM sessions WHERE token_hash").
		WithArgs("hash-a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteSessionByHash("hash-a"); err != nil {
		t.Fatalf("DeleteSessionByHash: %v", err)
	}

	mock.ExpectExec("DELETE FROM sessions WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.DeleteSessionsForUser(7); err != nil {
		t.Fatalf("DeleteSessionsForUser: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
