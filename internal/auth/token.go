package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTTokenGenerator signs and verifies HS256 tokens carrying the identity
// claims.
type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
	}
}

// Issue signs a token binding {id, email, role, branch} with the configured
// TTL. It has no side effects.
func (j *JWTTokenGenerator) Issue(u *User, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = j.TTL
	}
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		UserID: strconv.FormatInt(u.ID, 10),
		Email:  u.Email,
		Role:   u.Role,
		Branch: u.Branch,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify decodes and validates a token. Failures are collapsed to one of the
// three tags so callers never see parser internals.
func (j *JWTTokenGenerator) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, j.keyFunc)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// VerifyIgnoringExpiry checks signature and shape but not expiry. It exists
// for the refresh path, which re-reads the user's current status before
// trusting anything inside the claims.
func (j *JWTTokenGenerator) VerifyIgnoringExpiry(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, j.keyFunc)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func (j *JWTTokenGenerator) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return j.Secret, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignature
	default:
		return ErrTokenMalformed
	}
}

// UserIDFromClaims parses the numeric user id out of the claims.
func UserIDFromClaims(claims *Claims) (int64, error) {
	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return 0, ErrTokenMalformed
	}
	return id, nil
}
