package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// fileRecord is the on-disk shape of a user. The digest is stored
// under "password", the field name the original flat-file database
// used for the hash. The User json tags cannot be reused here: they
// hide the digest, which must never leave the API but must persist.
type fileRecord struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"password"`
	CreatedAt      time.Time `json:"created_at"`
}

// fileDocument is the on-disk layout: a single JSON object holding
// every record, rewritten atomically on each mutation.
type fileDocument struct {
	Users []fileRecord `json:"users"`
}

func toRecord(u *User) fileRecord {
	return fileRecord{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordDigest: u.PasswordDigest,
		CreatedAt:      u.CreatedAt,
	}
}

func (r fileRecord) toUser() *User {
	return &User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		PasswordDigest: r.PasswordDigest,
		CreatedAt:      r.CreatedAt,
	}
}

// FileStore keeps user records in a flat JSON file. Suitable for
// development and small deployments; a RWMutex serializes writers so
// the duplicate-email check inside Insert is race-free.
type FileStore struct {
	mu   sync.RWMutex
	path string
	doc  fileDocument
}

// OpenFileStore loads the document at path, creating an empty one if
// the file does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.flush(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}

	return s, nil
}

func (s *FileStore) Insert(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.doc.Users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}

	s.doc.Users = append(s.doc.Users, toRecord(u))

	if err := s.flush(); err != nil {
		// Roll back the in-memory append so memory and disk agree.
		s.doc.Users = s.doc.Users[:len(s.doc.Users)-1]
		return err
	}

	return nil
}

func (s *FileStore) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	return s.find(func(r fileRecord) bool { return r.ID == id })
}

func (s *FileStore) FindByEmail(_ context.Context, email string) (*User, error) {
	return s.find(func(r fileRecord) bool { return r.Email == email })
}

func (s *FileStore) FindByDigest(_ context.Context, digest string) (*User, error) {
	return s.find(func(r fileRecord) bool { return r.PasswordDigest == digest })
}

func (s *FileStore) FindByEmailAndDigest(_ context.Context, email, digest string) (*User, error) {
	return s.find(func(r fileRecord) bool { return r.Email == email && r.PasswordDigest == digest })
}

func (s *FileStore) find(match func(fileRecord) bool) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.doc.Users {
		if match(r) {
			return r.toUser(), nil
		}
	}

	return nil, ErrNotFound
}

// flush writes the document to a temp file and renames it over the
// store path, so a crash mid-write never truncates existing records.
// Callers must hold the write lock.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	return nil
}
