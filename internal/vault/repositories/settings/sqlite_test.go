package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestGet_MissingKeyReturnsNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "master_password_hash")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSet_InsertAndUpsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "key_salt", []byte("aa11")))
	v, err := r.Get(ctx, "key_salt")
	require.NoError(t, err)
	assert.Equal(t, []byte("aa11"), v)

	// same key again must replace, not duplicate
	require.NoError(t, r.Set(ctx, "key_salt", []byte("bb22")))
	v, err = r.Get(ctx, "key_salt")
	require.NoError(t, err)
	assert.Equal(t, []byte("bb22"), v)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v")))
	require.NoError(t, r.Delete(ctx, "k"))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}
