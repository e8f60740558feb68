package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"passvault/internal/common"
	"passvault/internal/dbx"
	"passvault/internal/vault/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) nameTaken(ctx context.Context, name string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, name string, parentID *string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("category name is empty: %w", common.ErrValidation)
	}

	taken, err := r.nameTaken(ctx, name)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("category %q: %w", name, common.ErrDuplicateName)
	}

	if parentID != nil {
		if _, err := r.GetByID(ctx, *parentID); err != nil {
			return "", err
		}
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, parent_id, created_at) VALUES (?, ?, ?, ?)`,
		id, name, parentID, time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to insert category: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, parent_id, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	var result []models.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, parent_id, created_at FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) Rename(ctx context.Context, id string, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is empty: %w", common.ErrValidation)
	}

	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur.Name == name {
		return nil
	}

	taken, err := r.nameTaken(ctx, name)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("category %q: %w", name, common.ErrDuplicateName)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id); err != nil {
		return fmt.Errorf("failed to rename category: %w", err)
	}
	return nil
}

// Delete re-roots children, uncategorizes referencing records, then removes
// the row. The three statements belong in one transaction; bind the
// repository to a dbx.WithTx handle.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE categories SET parent_id = NULL WHERE parent_id = ?`, id); err != nil {
		return fmt.Errorf("failed to re-root child categories: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE records SET category_id = NULL WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("failed to uncategorize records: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func scanCategory(scan func(dest ...any) error) (*models.Category, error) {
	var c models.Category
	var parent sql.NullString
	var createdAt int64
	if err := scan(&c.ID, &c.Name, &parent, &createdAt); err != nil {
		return nil, err
	}
	if parent.Valid {
		c.ParentID = &parent.String
	}
	c.CreatedAt = time.UnixMilli(createdAt)
	return &c, nil
}
