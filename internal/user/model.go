package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a registered principal. PasswordDigest is the one-way hash
// of the password; the plaintext is never stored and the digest is
// never serialized in API responses.
type User struct {
	bun.BaseModel `bun:"table:users" json:"-"`

	ID             uuid.UUID `bun:"id,pk" json:"id"`
	Name           string    `bun:"name,notnull" json:"name"`
	Email          string    `bun:"email,notnull,unique" json:"email"`
	PasswordDigest string    `bun:"password_digest,notnull" json:"-"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"created_at"`
}
