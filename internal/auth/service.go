package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/edustride/crm-backend/internal"
	"golang.org/x/crypto/bcrypt"
)

// Service implements authentication and the access-resolution entry points.
// Every permission read goes straight to the repository; there is no cache
// that could serve a permission after it was revoked.
type Service struct {
	repo       RepositoryAPI
	tokens     TokenGeneratorAPI
	resolver   *Resolver
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, resolver *Resolver, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		resolver:   resolver,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Authenticate validates credentials, issues a token and records a session.
// No session row is created on any failure path.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	creds, err := s.repo.GetCredentialsByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("credential lookup failed", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("authentication failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if creds.Status != StatusActive {
		return nil, internal.ErrUserInactive
	}

	user, err := s.repo.GetUserWithPermissions(creds.UserID)
	if err != nil {
		s.logger.Error("user load failed after credential check", "error", err, "user_id", creds.UserID)
		return nil, internal.NewInternalError("authentication failed", err)
	}

	token, expiresAt, err := s.tokens.Issue(user, 0)
	if err != nil {
		s.logger.Error("token issue failed", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("authentication failed", err)
	}

	session := &Session{
		UserID:    user.ID,
		TokenHash: HashToken(token),
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := s.repo.CreateSession(session); err != nil {
		s.logger.Error("session create failed", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("authentication failed", err)
	}

	s.logger.Info("user authenticated", "user_id", user.ID, "role", user.Role, "branch", user.Branch)
	return &LoginResult{Token: token, User: user}, nil
}

// Verify decodes a token, checks its session record and re-reads the user so
// a mid-session status change or permission revocation takes effect
// immediately. A stale-but-unexpired claim is never trusted on its own.
func (s *Service) Verify(tokenString string) (*User, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, mapTokenError(err)
	}

	exists, err := s.repo.SessionExistsByHash(HashToken(tokenString))
	if err != nil {
		// Fail closed: a store error during a permission lookup denies access.
		s.logger.Error("session lookup failed", "error", err)
		return nil, internal.ErrInvalidToken
	}
	if !exists {
		return nil, internal.ErrInvalidToken
	}

	user, err := s.loadActiveUser(claims)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Refresh issues a fresh token for an unexpired-or-expired token whose
// signature still checks out, after re-reading current status. The old
// session row is replaced by the new one.
func (s *Service) Refresh(tokenString string) (string, error) {
	claims, err := s.tokens.VerifyIgnoringExpiry(tokenString)
	if err != nil {
		return "", mapTokenError(err)
	}

	user, err := s.loadActiveUser(claims)
	if err != nil {
		return "", err
	}

	token, expiresAt, err := s.tokens.Issue(user, 0)
	if err != nil {
		s.logger.Error("token reissue failed", "error", err, "user_id", user.ID)
		return "", internal.NewInternalError("token refresh failed", err)
	}

	if err := s.repo.DeleteSessionByHash(HashToken(tokenString)); err != nil {
		s.logger.Warn("stale session delete failed", "error", err, "user_id", user.ID)
	}
	session := &Session{
		UserID:    user.ID,
		TokenHash: HashToken(token),
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := s.repo.CreateSession(session); err != nil {
		s.logger.Error("session create failed on refresh", "error", err, "user_id", user.ID)
		return "", internal.NewInternalError("token refresh failed", err)
	}

	return token, nil
}

// Logout deletes the session record matching the token hash. A token that
// has no session row is already logged out; that is not an error.
func (s *Service) Logout(tokenString string) error {
	if err := s.repo.DeleteSessionByHash(HashToken(tokenString)); err != nil {
		s.logger.Error("session delete failed", "error", err)
		return internal.NewInternalError("logout failed", err)
	}
	return nil
}

func (s *Service) GetUserWithPermissions(userID int64) (*User, error) {
	user, err := s.repo.GetUserWithPermissions(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.NewInternalError("user lookup failed", err)
	}
	return user, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) loadActiveUser(claims *Claims) (*User, error) {
	userID, err := UserIDFromClaims(claims)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	user, err := s.repo.GetUserWithPermissions(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		s.logger.Error("user load failed", "error", err, "user_id", userID)
		return nil, internal.ErrInvalidToken
	}
	if !user.IsActive() {
		return nil, internal.ErrUserInactive
	}
	return user, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return internal.ErrTokenExpired
	default:
		return internal.ErrInvalidToken
	}
}
