// Package records persists secret records. Rows always carry the encrypted
// payload; the key never reaches this layer and decryption is the session's
// responsibility.
package records

import (
	"context"

	"passvault/internal/vault/models"
)

type Repository interface {
	// Create inserts rec, filling in its timestamps. The id and encrypted
	// secret must already be set.
	Create(ctx context.Context, rec *models.Record) error
	// Update rewrites all mutable fields and refreshes UpdatedAt, strictly
	// forward of its previous value. Fails with common.ErrorNotFound when the
	// id is absent.
	Update(ctx context.Context, rec *models.Record) error
	// ReplaceSecret swaps only the encrypted payload, leaving timestamps
	// untouched. Used when re-encrypting under a new master key.
	ReplaceSecret(ctx context.Context, id string, secret []byte) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Record, error)
	// GetAll lists records ordered by title.
	GetAll(ctx context.Context) ([]models.Record, error)
	// Search returns records whose title, username, website or notes contain
	// query, case-insensitively, ordered by title.
	Search(ctx context.Context, query string) ([]models.Record, error)
}
