package user

import (
	"io"
	"log/slog"
	"testing"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type mockUserRepository struct {
	users     map[int64]*auth.User
	passwords map[int64]string
	perms     map[int64][]auth.ModulePermission
	nextID    int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:     map[int64]*auth.User{},
		passwords: map[int64]string{},
		perms:     map[int64][]auth.ModulePermission{},
		nextID:    1,
	}
}

func (m *mockUserRepository) Create(u *auth.User, passwordHash string) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	u.ID = m.nextID
	m.nextID++
	copied := *u
	m.users[u.ID] = &copied
	m.passwords[u.ID] = passwordHash
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*auth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	copied.Permissions = permissionMap(m.perms[id])
	return &copied, nil
}

func (m *mockUserRepository) List(branch, role, status string, limit, offset int) ([]*auth.User, error) {
	var out []*auth.User
	for _, u := range m.users {
		if branch != "" && u.Branch != branch {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockUserRepository) Update(u *auth.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *mockUserRepository) UpdatePassword(id int64, passwordHash string) error {
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	m.passwords[id] = passwordHash
	return nil
}

func (m *mockUserRepository) ReplacePermissions(id int64, perms []auth.ModulePermission) error {
	m.perms[id] = perms
	return nil
}

type mockSessionDeleter struct {
	revoked []int64
}

func (m *mockSessionDeleter) DeleteSessionsForUser(userID int64) error {
	m.revoked = append(m.revoked, userID)
	return nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service  *Service
		repo     *mockUserRepository
		sessions *mockSessionDeleter
		admin    *auth.User
		director *auth.User
	)

	ginkgo.BeforeEach(func() {
		repo = newMockUserRepository()
		sessions = &mockSessionDeleter{}
		resolver := auth.NewResolver(auth.DefaultRoleHierarchy())
		service = NewService(repo, sessions, resolver, bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))

		admin = &auth.User{ID: 1, Role: "admin", Status: auth.StatusActive}
		director = &auth.User{ID: 2, Role: "branch_director", Branch: "dhk", Status: auth.StatusActive}
	})

	newUser := func(actor *auth.User, email, role string) *auth.User {
		u, err := service.Create(actor, CreateUserDTO{
			Email:    email,
			Password: "password123",
			Name:     "Someone",
			Role:     role,
			Branch:   "dhk",
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return u
	}

	ginkgo.Describe("Create", func() {
		ginkgo.It("creates an active user with a hashed password", func() {
			u := newUser(admin, "c@example.com", "counselor")
			gomega.Expect(u.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(u.Status).To(gomega.Equal(auth.StatusActive))
			gomega.Expect(repo.passwords[u.ID]).ToNot(gomega.Equal("password123"))
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(repo.passwords[u.ID]), []byte("password123"))).To(gomega.Succeed())
		})

		ginkgo.It("rejects a role the hierarchy does not know", func() {
			_, err := service.Create(admin, CreateUserDTO{Email: "x@example.com", Password: "password123", Name: "X", Role: "janitor"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("refuses to assign a role above the actor's own rank", func() {
			_, err := service.Create(director, CreateUserDTO{Email: "x@example.com", Password: "password123", Name: "X", Role: "admin"})
			gomega.Expect(err).To(gomega.Equal(internal.ErrRoleForbidden))
		})

		ginkgo.It("allows assigning a role equal to the actor's own rank", func() {
			u := newUser(director, "peer@example.com", "branch_director")
			gomega.Expect(u.Role).To(gomega.Equal("branch_director"))
		})

		ginkgo.It("surfaces a duplicate email as a conflict", func() {
			newUser(admin, "dup@example.com", "counselor")
			_, err := service.Create(admin, CreateUserDTO{Email: "dup@example.com", Password: "password123", Name: "Dup", Role: "counselor"})
			gomega.Expect(err).To(gomega.Equal(ErrDuplicateEmail))
		})

		ginkgo.It("stores the initial permission matrix", func() {
			u, err := service.Create(admin, CreateUserDTO{
				Email: "p@example.com", Password: "password123", Name: "P", Role: "counselor",
				Permissions: []auth.ModulePermission{{Module: "leads", AccessLevel: auth.AccessCRUD}},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.perms[u.ID]).To(gomega.HaveLen(1))
		})

		ginkgo.It("rejects duplicate modules and bad access levels in the matrix", func() {
			_, err := service.Create(admin, CreateUserDTO{
				Email: "p@example.com", Password: "password123", Name: "P", Role: "counselor",
				Permissions: []auth.ModulePermission{
					{Module: "leads", AccessLevel: auth.AccessCRUD},
					{Module: "leads", AccessLevel: auth.AccessView},
				},
			})
			gomega.Expect(err).To(gomega.HaveOccurred())

			_, err = service.Create(admin, CreateUserDTO{
				Email: "q@example.com", Password: "password123", Name: "Q", Role: "counselor",
				Permissions: []auth.ModulePermission{{Module: "leads", AccessLevel: "rwx"}},
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Update", func() {
		var u *auth.User

		ginkgo.BeforeEach(func() {
			u = newUser(admin, "c@example.com", "counselor")
		})

		ginkgo.It("revokes sessions when the user leaves active status", func() {
			status := auth.StatusDormant
			updated, err := service.Update(admin, u.ID, UpdateUserDTO{Status: &status})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Status).To(gomega.Equal(auth.StatusDormant))
			gomega.Expect(sessions.revoked).To(gomega.ContainElement(u.ID))
		})

		ginkgo.It("does not revoke sessions on a plain profile edit", func() {
			name := "Renamed"
			_, err := service.Update(admin, u.ID, UpdateUserDTO{Name: &name})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sessions.revoked).To(gomega.BeEmpty())
		})

		ginkgo.It("applies the role ceiling to role changes", func() {
			role := "admin"
			_, err := service.Update(director, u.ID, UpdateUserDTO{Role: &role})
			gomega.Expect(err).To(gomega.Equal(internal.ErrRoleForbidden))
		})

		ginkgo.It("returns not found for an unknown user", func() {
			name := "x"
			_, err := service.Update(admin, 9999, UpdateUserDTO{Name: &name})
			gomega.Expect(err).To(gomega.Equal(ErrUserNotFound))
		})
	})

	ginkgo.Describe("ReplacePermissions", func() {
		ginkgo.It("swaps the whole matrix", func() {
			u := newUser(admin, "c@example.com", "counselor")
			_, err := service.ReplacePermissions(admin, u.ID, ReplacePermissionsDTO{
				Permissions: []auth.ModulePermission{
					{Module: "leads", AccessLevel: auth.AccessView},
					{Module: "cases", AccessLevel: auth.AccessCRUD},
				},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.perms[u.ID]).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Describe("ResetPassword", func() {
		ginkgo.It("replaces the hash and revokes every live session", func() {
			u := newUser(admin, "c@example.com", "counselor")
			oldHash := repo.passwords[u.ID]

			err := service.ResetPassword(admin, u.ID, ResetPasswordDTO{Password: "brand-new-pass"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.passwords[u.ID]).ToNot(gomega.Equal(oldHash))
			gomega.Expect(sessions.revoked).To(gomega.ContainElement(u.ID))
		})

		ginkgo.It("rejects short passwords", func() {
			u := newUser(admin, "c@example.com", "counselor")
			err := service.ResetPassword(admin, u.ID, ResetPasswordDTO{Password: "short"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
