package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Store is the keyed collection of user records. Insert must enforce
// email uniqueness and return ErrDuplicateEmail on violation, so that
// concurrent registrations of the same email cannot both commit.
type Store interface {
	Insert(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByDigest returns the first user whose stored digest matches.
	// Digests are unsalted, so identical passwords collide; first
	// match wins, as in the original store.
	FindByDigest(ctx context.Context, digest string) (*User, error)
	FindByEmailAndDigest(ctx context.Context, email, digest string) (*User, error)
}
