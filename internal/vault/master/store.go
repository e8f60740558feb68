// Package master implements the master credential store: a salted, iterated
// hash of the master password used solely to authenticate unlock attempts.
//
// The credential is stored in settings under a fixed key, encoded
// hex(salt):iterations:hex(hash). The encryption key is derived from the
// same password but over an independent salt ("key_salt"), so the persisted
// hash can never produce the key.
package master

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"passvault/internal/common"
	"passvault/internal/cryptox"
	"passvault/internal/dbx"
	"passvault/internal/vault/models"
	"passvault/internal/vault/repositories/settings"
)

const (
	credentialKey = "master_password_hash"
	keySaltKey    = "key_salt"

	// Iterations is the PBKDF2 round count for the stored hash.
	Iterations = 100_000
)

// Store persists and verifies the master credential.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// IsSet reports whether a master credential exists.
func (s *Store) IsSet(ctx context.Context) (bool, error) {
	v, err := settings.NewSQLiteRepository(s.db).Get(ctx, credentialKey)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

// Set replaces the master credential atomically: a fresh auth salt, a fresh
// key salt, both persisted in one transaction. It returns the encryption key
// derived from the new key salt; the caller owns wiping it.
func (s *Store) Set(ctx context.Context, password []byte) ([]byte, error) {
	var key []byte
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		k, err := s.SetTx(ctx, tx, password)
		key = k
		return err
	})
	if err != nil {
		common.WipeBytes(key)
		return nil, err
	}
	return key, nil
}

// SetTx is Set running on a caller-provided transaction, for flows that must
// couple the credential swap with other writes (payload re-encryption on
// master password change).
func (s *Store) SetTx(ctx context.Context, tx dbx.DBTX, password []byte) ([]byte, error) {
	authSalt := common.GenerateRandBytes(cryptox.SaltSize)
	keySalt := common.GenerateRandBytes(cryptox.SaltSize)

	cred := models.MasterCredential{
		Salt:       authSalt,
		Iterations: Iterations,
		Hash:       cryptox.HashPassword(password, authSalt, Iterations),
	}

	repo := settings.NewSQLiteRepository(tx)
	if err := repo.Set(ctx, credentialKey, []byte(encodeCredential(cred))); err != nil {
		return nil, err
	}
	if err := repo.Set(ctx, keySaltKey, []byte(hex.EncodeToString(keySalt))); err != nil {
		return nil, err
	}

	return cryptox.DeriveKey(password, keySalt), nil
}

// Verify recomputes the stored hash for password and compares in constant
// time. On success it derives and returns the encryption key; on mismatch it
// returns common.ErrWrongPassword without deriving anything. A missing
// credential yields common.ErrNotInitialized.
func (s *Store) Verify(ctx context.Context, password []byte) ([]byte, error) {
	repo := settings.NewSQLiteRepository(s.db)

	stored, err := repo.Get(ctx, credentialKey)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, common.ErrNotInitialized
	}

	cred, err := decodeCredential(string(stored))
	if err != nil {
		return nil, err
	}

	candidate := cryptox.HashPassword(password, cred.Salt, cred.Iterations)
	if subtle.ConstantTimeCompare(cred.Hash, candidate) == 0 {
		return nil, common.ErrWrongPassword
	}

	rawSalt, err := repo.Get(ctx, keySaltKey)
	if err != nil {
		return nil, err
	}
	if rawSalt == nil {
		return nil, fmt.Errorf("key salt missing: %w", common.ErrNotInitialized)
	}
	keySalt, err := hex.DecodeString(string(rawSalt))
	if err != nil {
		return nil, fmt.Errorf("failed to decode key salt: %w", err)
	}

	return cryptox.DeriveKey(password, keySalt), nil
}

func encodeCredential(c models.MasterCredential) string {
	return fmt.Sprintf("%s:%d:%s",
		hex.EncodeToString(c.Salt), c.Iterations, hex.EncodeToString(c.Hash))
}

func decodeCredential(s string) (*models.MasterCredential, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed master credential")
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode credential salt: %w", err)
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return nil, fmt.Errorf("malformed credential iteration count")
	}
	hash, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("failed to decode credential hash: %w", err)
	}
	return &models.MasterCredential{Salt: salt, Iterations: iterations, Hash: hash}, nil
}
