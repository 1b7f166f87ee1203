package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Mock repository tracking session writes so revocation behavior is
// observable.
type mockRepository struct {
	credentials   map[string]*Credentials
	usersByID     map[int64]*User
	sessions      map[string]int64 // token hash -> user id
	returnError   bool
	errorToReturn error
}

func newMockRepository() *mockRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	canEditFalse := false
	return &mockRepository{
		credentials: map[string]*Credentials{
			"counselor@example.com": {UserID: 1, Email: "counselor@example.com", PasswordHash: string(hashedPassword), Status: StatusActive},
			"root@example.com":      {UserID: 2, Email: "root@example.com", PasswordHash: string(hashedPassword), Status: StatusActive},
			"dormant@example.com":   {UserID: 3, Email: "dormant@example.com", PasswordHash: string(hashedPassword), Status: StatusDormant},
		},
		usersByID: map[int64]*User{
			1: {
				ID: 1, Email: "counselor@example.com", Name: "Counselor", Role: "counselor",
				Branch: "dhk", Status: StatusActive,
				Permissions: map[string]ModulePermission{
					"leads": {Module: "leads", AccessLevel: AccessCRUD, CanEdit: &canEditFalse},
				},
			},
			2: {ID: 2, Email: "root@example.com", Name: "Root", Role: "super_admin", Status: StatusActive},
			3: {ID: 3, Email: "dormant@example.com", Name: "Dormant", Role: "counselor", Branch: "dhk", Status: StatusDormant},
		},
		sessions: map[string]int64{},
	}
}

func (m *mockRepository) GetCredentialsByEmail(email string) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if creds, ok := m.credentials[email]; ok {
		return creds, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserWithPermissions(userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, ok := m.usersByID[userID]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) CreateSession(s *Session) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.sessions[s.TokenHash] = s.UserID
	return nil
}

func (m *mockRepository) SessionExistsByHash(hash string) (bool, error) {
	if m.returnError {
		return false, m.errorToReturn
	}
	_, ok := m.sessions[hash]
	return ok, nil
}

func (m *mockRepository) DeleteSessionByHash(hash string) error {
	delete(m.sessions, hash)
	return nil
}

func (m *mockRepository) DeleteSessionsForUser(userID int64) error {
	for hash, uid := range m.sessions {
		if uid == userID {
			delete(m.sessions, hash)
		}
	}
	return nil
}

func (m *mockRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

func (m *mockRepository) clearError() {
	m.returnError = false
	m.errorToReturn = nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockRepository()
		tokenGen = NewJWTTokenGenerator("test-secret-at-least-32-characters!!", 15*time.Minute)
		resolver := NewResolver(DefaultRoleHierarchy())
		service = NewService(mockRepo, tokenGen, resolver, bcrypt.MinCost, testLogger())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return a token and the resolved user", func() {
				result, err := service.Authenticate(LoginDTO{
					Email:    "counselor@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.Token).ToNot(gomega.BeEmpty())
				gomega.Expect(result.User.ID).To(gomega.Equal(int64(1)))
				gomega.Expect(result.User.Branch).To(gomega.Equal("dhk"))
			})

			ginkgo.It("should record a session keyed by the token hash", func() {
				result, err := service.Authenticate(LoginDTO{
					Email:    "counselor@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(mockRepo.sessions).To(gomega.HaveKey(HashToken(result.Token)))
			})
		})

		ginkgo.Context("when the password is wrong", func() {
			ginkgo.It("should return invalid credentials and create no session", func() {
				result, err := service.Authenticate(LoginDTO{
					Email:    "counselor@example.com",
					Password: "wrong_password",
				})

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
				gomega.Expect(result).To(gomega.BeNil())
				gomega.Expect(mockRepo.sessions).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when the email is unknown", func() {
			ginkgo.It("should return the same invalid credentials error", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "nobody@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when the account is not active", func() {
			ginkgo.It("should deny with a distinct status error after the password check", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "dormant@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.Equal(internal.ErrUserInactive))
				gomega.Expect(mockRepo.sessions).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should reject an empty email", func() {
				_, err := service.Authenticate(LoginDTO{Email: "", Password: "x"})
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("email is required"))
			})

			ginkgo.It("should reject an empty password", func() {
				_, err := service.Authenticate(LoginDTO{Email: "counselor@example.com", Password: ""})
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})
	})

	ginkgo.Describe("Verify", func() {
		var token string

		ginkgo.BeforeEach(func() {
			result, err := service.Authenticate(LoginDTO{
				Email:    "counselor@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			token = result.Token
		})

		ginkgo.It("should resolve the user for a live session", func() {
			user, err := service.Verify(token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user.ID).To(gomega.Equal(int64(1)))
			gomega.Expect(user.Permissions).To(gomega.HaveKey("leads"))
		})

		ginkgo.It("should deny a token whose session was revoked", func() {
			gomega.Expect(service.Logout(token)).To(gomega.Succeed())

			_, err := service.Verify(token)
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})

		ginkgo.It("should deny when the user went inactive mid-session", func() {
			mockRepo.usersByID[1].Status = StatusInactive

			_, err := service.Verify(token)
			gomega.Expect(err).To(gomega.Equal(internal.ErrUserInactive))
		})

		ginkgo.It("should fail closed when the session store errors", func() {
			mockRepo.setError(errors.New("store down"))

			_, err := service.Verify(token)
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
			mockRepo.clearError()
		})

		ginkgo.It("should deny garbage tokens", func() {
			_, err := service.Verify("not-a-token")
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})
	})

	ginkgo.Describe("Refresh", func() {
		var token string

		ginkgo.BeforeEach(func() {
			result, err := service.Authenticate(LoginDTO{
				Email:    "counselor@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			token = result.Token
		})

		ginkgo.It("should issue a new token and swap the session row", func() {
			// Signing is second-resolution; force a distinct iat.
			time.Sleep(1100 * time.Millisecond)

			fresh, err := service.Refresh(token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(fresh).ToNot(gomega.Equal(token))
			gomega.Expect(mockRepo.sessions).To(gomega.HaveKey(HashToken(fresh)))
			gomega.Expect(mockRepo.sessions).ToNot(gomega.HaveKey(HashToken(token)))
		})

		ginkgo.It("should refuse to refresh for a user no longer active", func() {
			mockRepo.usersByID[1].Status = StatusDormant

			_, err := service.Refresh(token)
			gomega.Expect(err).To(gomega.Equal(internal.ErrUserInactive))
		})

		ginkgo.It("should refresh an expired token with a valid signature", func() {
			expired, _, err := tokenGen.Issue(mockRepo.usersByID[1], time.Nanosecond)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, verifyErr := service.Verify(expired)
			gomega.Expect(verifyErr).To(gomega.Equal(internal.ErrTokenExpired))

			fresh, err := service.Refresh(expired)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(fresh).ToNot(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should be idempotent for tokens without a session", func() {
			gomega.Expect(service.Logout("whatever")).To(gomega.Succeed())
		})
	})
})
