package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"authgate/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// Credentials is the pair handed to a client on successful
// registration or login. The client persists it and presents the
// token via the bearer header on protected requests.
type Credentials struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"token"`
}

// Service orchestrates registration, login, and token verification on
// top of a CredentialHasher, a TokenCodec, and a user.Store.
type Service struct {
	store  user.Store
	hasher CredentialHasher
	codec  TokenCodec
}

func NewService(store user.Store, hasher CredentialHasher, codec TokenCodec) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		codec:  codec,
	}
}

// Register creates a new user and issues a token for it. Fails with
// user.ErrDuplicateEmail when the email is already taken.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Credentials, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	// Friendly-path check; the store's unique constraint still backs
	// this under concurrent registration of the same email.
	_, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return nil, user.ErrDuplicateEmail
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	newUser := &user.User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		PasswordDigest: s.hasher.Hash(password),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return s.issueFor(newUser.ID, password)
}

// Login verifies the credentials and issues a fresh token. Unknown
// email and wrong password fail identically with
// ErrInvalidCredentials so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (*Credentials, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	digest := s.hasher.Hash(password)

	u, err := s.store.FindByEmailAndDigest(ctx, email, digest)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.issueFor(u.ID, password)
}

// ResolveFromToken verifies the token and resolves the owning user by
// re-hashing the embedded claim. A valid signature over a claim that
// matches no user fails exactly like a bad signature.
func (s *Service) ResolveFromToken(ctx context.Context, token string) (*user.User, error) {
	claim, err := s.codec.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	digest := s.hasher.Hash(string(claim))

	u, err := s.store.FindByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return u, nil
}

// GetByID looks a user up by its public id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Service) issueFor(id uuid.UUID, password string) (*Credentials, error) {
	// The claim is the plaintext password, re-hashed at verification
	// time to resolve the user by digest.
	token, err := s.codec.Issue([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &Credentials{ID: id, Token: token}, nil
}
