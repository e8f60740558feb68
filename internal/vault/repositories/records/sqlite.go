package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"passvault/internal/common"
	"passvault/internal/dbx"
	"passvault/internal/vault/models"
)

const selectColumns = `id, title, username, secret, website, notes, category_id, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *models.Record) error {
	if strings.TrimSpace(rec.Title) == "" {
		return fmt.Errorf("record title is empty: %w", common.ErrValidation)
	}

	ts := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (id, title, username, secret, website, notes, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Username, rec.Secret, rec.Website, rec.Notes, rec.CategoryID, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(ts)
	rec.UpdatedAt = rec.CreatedAt
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *models.Record) error {
	if strings.TrimSpace(rec.Title) == "" {
		return fmt.Errorf("record title is empty: %w", common.ErrValidation)
	}

	var cur int64
	err := r.db.QueryRowContext(ctx, `SELECT updated_at FROM records WHERE id = ?`, rec.ID).Scan(&cur)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("record %s: %w", rec.ID, common.ErrorNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read record timestamp: %w", err)
	}

	// updated_at moves strictly forward even with a coarse clock
	ts := time.Now().UnixMilli()
	if ts <= cur {
		ts = cur + 1
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE records SET title = ?, username = ?, secret = ?, website = ?, notes = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		rec.Title, rec.Username, rec.Secret, rec.Website, rec.Notes, rec.CategoryID, ts, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	rec.UpdatedAt = time.UnixMilli(ts)
	return nil
}

func (r *SQLiteRepository) ReplaceSecret(ctx context.Context, id string, secret []byte) error {
	res, err := r.db.ExecContext(ctx, `UPDATE records SET secret = ? WHERE id = ?`, secret, id)
	if err != nil {
		return fmt.Errorf("failed to replace secret: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM records ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	return collectRecords(rows)
}

func (r *SQLiteRepository) Search(ctx context.Context, query string) ([]models.Record, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+selectColumns+` FROM records
		WHERE title LIKE ? ESCAPE '\'
		   OR username LIKE ? ESCAPE '\'
		   OR website LIKE ? ESCAPE '\'
		   OR notes LIKE ? ESCAPE '\'
		ORDER BY title`,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search records: %w", err)
	}
	return collectRecords(rows)
}

// escapeLike neutralizes LIKE metacharacters so user queries match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func collectRecords(rows *sql.Rows) ([]models.Record, error) {
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanRecord(scan func(dest ...any) error) (*models.Record, error) {
	var rec models.Record
	var username, website, notes, categoryID sql.NullString
	var createdAt, updatedAt int64
	err := scan(&rec.ID, &rec.Title, &username, &rec.Secret, &website, &notes, &categoryID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	rec.Username = username.String
	rec.Website = website.String
	rec.Notes = notes.String
	if categoryID.Valid {
		rec.CategoryID = &categoryID.String
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	rec.UpdatedAt = time.UnixMilli(updatedAt)
	return &rec, nil
}
