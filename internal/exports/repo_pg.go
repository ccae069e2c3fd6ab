package exports

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const exportColumns = `id, owner_id, session_id, template_id, format, title, storage_key, mime_type, size_bytes, created_at`

// Create inserts an export record.
func (r *PGRepo) Create(ctx context.Context, e Export) error {
	const query = `
INSERT INTO exports (` + exportColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.OwnerID,
		e.SessionID,
		e.TemplateID,
		e.Format,
		e.Title,
		e.StorageKey,
		e.MimeType,
		e.SizeBytes,
		e.CreatedAt,
	)
	return err
}

// GetByID returns an export by ID for an owner.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, exportID string) (Export, error) {
	const query = `
SELECT ` + exportColumns + `
FROM exports
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	e, err := scanExport(r.DB.QueryRowContext(ctx, query, exportID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Export{}, ErrNotFound
		}
		return Export{}, err
	}
	if e.OwnerID != ownerID {
		return Export{}, ErrForbidden
	}
	return e, nil
}

// ListByOwner lists exports newest first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Export, error) {
	limit, offset = clampPage(limit, offset)
	const query = `
SELECT ` + exportColumns + `
FROM exports
WHERE owner_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Export{}
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExport(row rowScanner) (Export, error) {
	var e Export
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.SessionID,
		&e.TemplateID,
		&e.Format,
		&e.Title,
		&e.StorageKey,
		&e.MimeType,
		&e.SizeBytes,
		&e.CreatedAt,
	)
	return e, err
}

var _ Repo = (*PGRepo)(nil)
