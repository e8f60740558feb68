// Package categories persists the hierarchical category tree as a flat
// parent-pointer relation.
package categories

import (
	"context"

	"passvault/internal/vault/models"
)

type Repository interface {
	// Create inserts a category and returns its id. Fails with
	// common.ErrDuplicateName when the name is taken and common.ErrorNotFound
	// when parentID references a missing category.
	Create(ctx context.Context, name string, parentID *string) (string, error)
	// GetAll lists categories ordered by name.
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Rename(ctx context.Context, id string, name string) error
	// Delete removes a category. Its children are re-rooted and records
	// referencing it become uncategorized; dependent rows are never deleted.
	// Callers run it inside a transaction.
	Delete(ctx context.Context, id string) error
}
