package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failure tags. Only the tag crosses the service boundary;
// the HTTP layer responds with a generic 401.
var (
	ErrTokenMalformed  = errors.New("token malformed")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenSignature  = errors.New("token signature invalid")
	ErrSessionRevoked  = errors.New("session revoked")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongCredential = errors.New("invalid credentials")
)

// Claims is the decoded token payload. The subject is the numeric user id;
// email travels alongside so the identity context can be keyed by either.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Branch string `json:"branch,omitempty"`
	jwt.RegisteredClaims
}

// LoginResult is what a successful authentication returns to the transport
// layer.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// VerifyResult mirrors the verify endpoint response body.
type VerifyResult struct {
	Valid bool  `json:"valid"`
	User  *User `json:"user"`
}

// Credentials is the minimal row the login path reads before any password
// comparison happens.
type Credentials struct {
	UserID       int64
	Email        string
	PasswordHash string
	Status       string
}

// TokenGeneratorAPI issues and verifies signed tokens. Issue has no side
// effects; persisting a session record for revocation is the caller's job.
type TokenGeneratorAPI interface {
	Issue(u *User, ttl time.Duration) (string, time.Time, error)
	Verify(tokenString string) (*Claims, error)
	VerifyIgnoringExpiry(tokenString string) (*Claims, error)
}

// RepositoryAPI is the permission-store and session persistence surface the
// auth service needs. Reads are always fresh; a revoked permission must be
// visible on the very next request.
type RepositoryAPI interface {
	GetCredentialsByEmail(email string) (*Credentials, error)
	GetUserWithPermissions(userID int64) (*User, error)
	CreateSession(s *Session) error
	SessionExistsByHash(hash string) (bool, error)
	DeleteSessionByHash(hash string) error
	DeleteSessionsForUser(userID int64) error
}

// ServiceAPI is consumed by the HTTP handlers and the auth middleware.
type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*LoginResult, error)
	Verify(tokenString string) (*User, error)
	Refresh(tokenString string) (string, error)
	Logout(tokenString string) error
	GetUserWithPermissions(userID int64) (*User, error)
	HashPassword(password string) (string, error)
	Resolver() *Resolver
}
