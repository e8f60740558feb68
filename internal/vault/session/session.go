// Package session implements the vault session: the single owner of the live
// encryption key, routing record operations through the cipher and the
// repositories. All persisted secret payloads pass through here; the
// repositories below never see plaintext or the key.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"passvault/internal/common"
	"passvault/internal/cryptox"
	"passvault/internal/dbx"
	"passvault/internal/logging"
	"passvault/internal/vault/master"
	"passvault/internal/vault/migrations"
	"passvault/internal/vault/models"
	"passvault/internal/vault/repositories/categories"
	"passvault/internal/vault/repositories/records"
)

// State is the lifecycle state of a session.
type State string

const (
	// StateUninitialized means the database has no master credential yet;
	// the only way forward is SetMasterPassword.
	StateUninitialized State = "uninitialized"
	// StateLocked means a credential exists but no key is held.
	StateLocked State = "locked"
	// StateUnlocked means the session holds the live encryption key.
	StateUnlocked State = "unlocked"
	// StateClosed means the database handle has been released.
	StateClosed State = "closed"
)

// SecretInput carries the caller-supplied fields of a record. Secret is
// plaintext; it is encrypted before it ever reaches storage.
type SecretInput struct {
	Title      string
	Username   string
	Secret     string
	Website    string
	Notes      string
	CategoryID *string
}

// Session wraps the record store and cipher behind a key-aware facade.
// Safe for concurrent use; one mutex serializes state changes and writes.
type Session struct {
	mu     sync.Mutex
	db     *sql.DB
	state  State
	key    []byte
	cipher *cryptox.Cipher

	master     *master.Store
	records    records.Repository
	categories categories.Repository
	log        logging.Logger
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open initializes the database at path (creating and migrating it as
// needed) and returns a session holding no key: state is StateLocked when a
// master credential exists, StateUninitialized otherwise.
func Open(ctx context.Context, path string, log logging.Logger) (*Session, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Session{
		db:         db,
		master:     master.NewStore(db),
		records:    records.NewSQLiteRepository(db),
		categories: categories.NewSQLiteRepository(db),
		log:        log,
	}

	set, err := s.master.IsSet(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if set {
		s.state = StateLocked
	} else {
		s.state = StateUninitialized
	}

	log.Info(ctx, "vault opened", "path", path, "state", s.state)
	return s, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetMasterPassword creates the master credential on first use
// (StateUninitialized -> StateUnlocked) or, when already unlocked, replaces
// it: every stored payload is re-encrypted under the new key and the
// credential is swapped in one transaction.
func (s *Session) SetMasterPassword(ctx context.Context, password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUninitialized:
		key, err := s.master.Set(ctx, password)
		if err != nil {
			return err
		}
		if err := s.installKey(key); err != nil {
			return err
		}
		s.state = StateUnlocked
		s.log.Info(ctx, "master password set")
		return nil

	case StateUnlocked:
		return s.changeMasterPassword(ctx, password)

	case StateClosed:
		return common.ErrClosed

	default:
		return common.ErrLocked
	}
}

func (s *Session) changeMasterPassword(ctx context.Context, password []byte) error {
	// The new cipher is constructed inside the transaction so that nothing
	// fallible is left between commit and key installation.
	var newKey []byte
	var newCipher *cryptox.Cipher
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := records.NewSQLiteRepository(tx)

		rows, err := repo.GetAll(ctx)
		if err != nil {
			return err
		}

		newKey, err = s.master.SetTx(ctx, tx, password)
		if err != nil {
			return err
		}
		newCipher, err = cryptox.NewCipher(newKey)
		if err != nil {
			return err
		}

		for _, row := range rows {
			plaintext, err := s.cipher.Decrypt(row.Secret)
			if err != nil {
				return fmt.Errorf("record %s: %w", row.ID, common.ErrCorruptPayload)
			}
			blob, err := newCipher.Encrypt(plaintext)
			common.WipeBytes(plaintext)
			if err != nil {
				return err
			}
			if err := repo.ReplaceSecret(ctx, row.ID, blob); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		common.WipeBytes(newKey)
		return err
	}

	s.dropKey()
	s.key = newKey
	s.cipher = newCipher
	s.log.Info(ctx, "master password changed")
	return nil
}

// Unlock verifies the master password and, on success, derives and installs
// the encryption key. A wrong password fails with common.ErrWrongPassword
// and no key is retained.
func (s *Session) Unlock(ctx context.Context, password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return common.ErrClosed
	case StateUninitialized:
		return common.ErrNotInitialized
	case StateUnlocked:
		return nil
	}

	key, err := s.master.Verify(ctx, password)
	if err != nil {
		return err
	}
	if err := s.installKey(key); err != nil {
		return err
	}
	s.state = StateUnlocked
	s.log.Info(ctx, "vault unlocked")
	return nil
}

// Lock discards the in-memory key. Operations needing the key fail with
// common.ErrLocked until Unlock succeeds again.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropKey()
	if s.state == StateUnlocked {
		s.state = StateLocked
		s.log.Info(context.Background(), "vault locked")
	}
}

// Close locks the session and releases the database handle.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}
	s.dropKey()
	s.state = StateClosed
	return s.db.Close()
}

// installKey replaces the held key and cipher, wiping the previous key.
func (s *Session) installKey(key []byte) error {
	cipher, err := cryptox.NewCipher(key)
	if err != nil {
		common.WipeBytes(key)
		return err
	}
	s.dropKey()
	s.key = key
	s.cipher = cipher
	return nil
}

func (s *Session) dropKey() {
	common.WipeBytes(s.key)
	s.key = nil
	s.cipher = nil
}

func (s *Session) requireOpen() error {
	if s.state == StateClosed {
		return common.ErrClosed
	}
	return nil
}

func (s *Session) requireUnlocked() error {
	switch s.state {
	case StateClosed:
		return common.ErrClosed
	case StateUnlocked:
		return nil
	default:
		return common.ErrLocked
	}
}

// AddSecret encrypts the plaintext secret and stores a new record,
// returning its id. Requires StateUnlocked.
func (s *Session) AddSecret(ctx context.Context, in SecretInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnlocked(); err != nil {
		return "", err
	}

	blob, err := s.cipher.Encrypt([]byte(in.Secret))
	if err != nil {
		return "", err
	}

	rec := &models.Record{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Username:   in.Username,
		Secret:     blob,
		Website:    in.Website,
		Notes:      in.Notes,
		CategoryID: in.CategoryID,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// UpdateSecret re-encrypts and rewrites an existing record. Requires
// StateUnlocked.
func (s *Session) UpdateSecret(ctx context.Context, id string, in SecretInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnlocked(); err != nil {
		return err
	}

	blob, err := s.cipher.Encrypt([]byte(in.Secret))
	if err != nil {
		return err
	}

	rec := &models.Record{
		ID:         id,
		Title:      in.Title,
		Username:   in.Username,
		Secret:     blob,
		Website:    in.Website,
		Notes:      in.Notes,
		CategoryID: in.CategoryID,
	}
	return s.records.Update(ctx, rec)
}

// ReadSecret fetches a record and decrypts its payload. Requires
// StateUnlocked. A payload that fails authentication (tampering, or a
// database written under a different master password) surfaces as
// common.ErrCorruptPayload, never as placeholder plaintext.
func (s *Session) ReadSecret(ctx context.Context, id string) (*models.PlaintextRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnlocked(); err != nil {
		return nil, err
	}

	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.cipher.Decrypt(rec.Secret)
	if err != nil {
		if errors.Is(err, common.ErrAuthenticationFailed) {
			return nil, fmt.Errorf("record %s: %w", id, common.ErrCorruptPayload)
		}
		return nil, err
	}

	return &models.PlaintextRecord{
		ID:         rec.ID,
		Title:      rec.Title,
		Username:   rec.Username,
		Secret:     string(plaintext),
		Website:    rec.Website,
		Notes:      rec.Notes,
		CategoryID: rec.CategoryID,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}

// DeleteSecret removes a record. Like every record mutation it requires
// StateUnlocked, even though deletion itself never touches the cipher.
func (s *Session) DeleteSecret(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnlocked(); err != nil {
		return err
	}
	return s.records.Delete(ctx, id)
}

// ListRecords lists all records ordered by title. Payloads stay encrypted;
// allowed while locked.
func (s *Session) ListRecords(ctx context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	return s.records.GetAll(ctx)
}

// Search matches query case-insensitively against title, username, website
// and notes. Payloads stay encrypted; allowed while locked.
func (s *Session) Search(ctx context.Context, query string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	return s.records.Search(ctx, query)
}

// AddCategory creates a category, optionally under a parent.
func (s *Session) AddCategory(ctx context.Context, name string, parentID *string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return "", err
	}
	return s.categories.Create(ctx, name, parentID)
}

// RenameCategory changes a category's name.
func (s *Session) RenameCategory(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}
	return s.categories.Rename(ctx, id, name)
}

// DeleteCategory removes a category inside one transaction: children are
// re-rooted and referencing records become uncategorized.
func (s *Session) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return categories.NewSQLiteRepository(tx).Delete(ctx, id)
	})
}

// ListCategoriesFlat lists categories ordered by name.
func (s *Session) ListCategoriesFlat(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	return s.categories.GetAll(ctx)
}

// CategoryTree returns the nested category tree, alphabetical at each level.
func (s *Session) CategoryTree(ctx context.Context) ([]*models.CategoryNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	flat, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return models.BuildCategoryTree(flat), nil
}
