package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore persists user records through the bun ORM. Works against
// Postgres and SQLite; email uniqueness is enforced by the unique
// index, which backs the register duplicate check under concurrency.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// Migrate creates the users table if it does not exist.
func (s *BunStore) Migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func (s *BunStore) Insert(ctx context.Context, u *User) error {
	_, err := s.db.NewInsert().
		Model(u).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *BunStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.findWhere(ctx, "id = ?", id)
}

func (s *BunStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findWhere(ctx, "email = ?", email)
}

func (s *BunStore) FindByDigest(ctx context.Context, digest string) (*User, error) {
	return s.findWhere(ctx, "password_digest = ?", digest)
}

func (s *BunStore) FindByEmailAndDigest(ctx context.Context, email, digest string) (*User, error) {
	u := new(User)
	err := s.db.NewSelect().
		Model(u).
		Where("email = ?", email).
		Where("password_digest = ?", digest).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (s *BunStore) findWhere(ctx context.Context, clause string, arg any) (*User, error) {
	u := new(User)
	err := s.db.NewSelect().
		Model(u).
		Where(clause, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// isUniqueViolation matches both the lib/pq and sqlite3 texts for a
// unique-constraint failure.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
