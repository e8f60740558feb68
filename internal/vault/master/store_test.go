package master

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passvault/internal/common"
	"passvault/internal/vault/repositories/settings"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE settings (
  key TEXT PRIMARY KEY,
  value TEXT
);
`)
	require.NoError(t, err)

	return db
}

func TestIsSet(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	set, err := s.IsSet(ctx)
	require.NoError(t, err)
	assert.False(t, set)

	_, err = s.Set(ctx, []byte("correcthorse123"))
	require.NoError(t, err)

	set, err = s.IsSet(ctx)
	require.NoError(t, err)
	assert.True(t, set)
}

func TestSetAndVerify(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	key, err := s.Set(ctx, []byte("correcthorse123"))
	require.NoError(t, err)
	require.Len(t, key, 32)

	got, err := s.Verify(ctx, []byte("correcthorse123"))
	require.NoError(t, err)
	assert.Equal(t, key, got, "verify must reproduce the same encryption key")

	_, err = s.Verify(ctx, []byte("wrong-password"))
	assert.ErrorIs(t, err, common.ErrWrongPassword)
}

func TestVerify_NotInitialized(t *testing.T) {
	s := NewStore(setupDB(t))

	_, err := s.Verify(context.Background(), []byte("anything"))
	assert.ErrorIs(t, err, common.ErrNotInitialized)
}

func TestSet_ReplacesCredential(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	key1, err := s.Set(ctx, []byte("old-password"))
	require.NoError(t, err)

	key2, err := s.Set(ctx, []byte("new-password"))
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)

	_, err = s.Verify(ctx, []byte("old-password"))
	assert.ErrorIs(t, err, common.ErrWrongPassword)

	got, err := s.Verify(ctx, []byte("new-password"))
	require.NoError(t, err)
	assert.Equal(t, key2, got)
}

func TestStoredHashIsNotTheKey(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()

	key, err := s.Set(ctx, []byte("correcthorse123"))
	require.NoError(t, err)

	stored, err := settings.NewSQLiteRepository(db).Get(ctx, "master_password_hash")
	require.NoError(t, err)
	cred, err := decodeCredential(string(stored))
	require.NoError(t, err)

	assert.Equal(t, Iterations, cred.Iterations)
	assert.GreaterOrEqual(t, len(cred.Salt), 16)
	assert.NotEqual(t, key, cred.Hash, "persisted hash must differ from the encryption key")
}

func TestDecodeCredential_Malformed(t *testing.T) {
	for _, tc := range []string{
		"",
		"onlyonepart",
		"zz:100000:aabb",       // bad salt hex
		"aabb:notanumber:aabb", // bad iterations
		"aabb:0:aabb",          // non-positive iterations
		"aabb:100000:zz",       // bad hash hex
	} {
		_, err := decodeCredential(tc)
		assert.Error(t, err, "input %q", tc)
	}
}
