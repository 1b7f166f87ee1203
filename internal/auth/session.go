package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Session is the server-side revocation record for an issued token. Only the
// hash of the token value is stored; rows are created at login and deleted at
// logout or when the owning user leaves active status. Expired rows are swept
// opportunistically, not guaranteed.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TokenHash string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HashToken derives the storage key for a token value.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
