package user

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/database"
)

func newSQLiteStore(t *testing.T) *BunStore {
	t.Helper()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewBunStore(db)
	require.NoError(t, store.Migrate(context.Background()))

	return store
}

func TestBunStore_InsertAndFind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newSQLiteStore(t)

	alice := newRecord("Alice", "a@x.com", "digest-a")
	require.NoError(t, store.Insert(ctx, alice))

	byID, err := store.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)
	assert.Equal(t, "digest-a", byID.PasswordDigest)

	byEmail, err := store.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byDigest, err := store.FindByDigest(ctx, "digest-a")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byDigest.ID)

	both, err := store.FindByEmailAndDigest(ctx, "a@x.com", "digest-a")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, both.ID)

	_, err = store.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.FindByEmailAndDigest(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBunStore_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newSQLiteStore(t)

	require.NoError(t, store.Insert(ctx, newRecord("Alice", "a@x.com", "digest-a")))

	err := store.Insert(ctx, newRecord("Impostor", "a@x.com", "digest-b"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestBunStore_MigrateIdempotent(t *testing.T) {
	t.Parallel()

	store := newSQLiteStore(t)
	require.NoError(t, store.Migrate(context.Background()))
}
