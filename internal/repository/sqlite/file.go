package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/model"
	"github.com/sakif/imagevault/internal/repository"
)

// compile-time check that *DB implements repository.FileRepository
var _ repository.FileRepository = (*DB)(nil)

// Create inserts a new file row, generating its ID and upload timestamp.
// The stored_name UNIQUE constraint backs up the collision resistance of
// the generated object names.
func (db *DB) Create(ctx context.Context, file *model.File) error {
	file.ID = xid.New().String()
	file.UploadedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO files (id, stored_name, original_name, owner_id, uploaded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		file.ID,
		file.StoredName,
		file.OriginalName,
		file.OwnerID,
		file.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting file %q: %w", file.StoredName, err)
	}

	return nil
}

// ListByOwner returns all files owned by ownerID, newest upload first.
func (db *DB) ListByOwner(ctx context.Context, ownerID string) ([]model.File, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, stored_name, original_name, owner_id, uploaded_at
		 FROM files WHERE owner_id = ?
		 ORDER BY uploaded_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing files for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// GetByID retrieves a single file row.
func (db *DB) GetByID(ctx context.Context, id string) (*model.File, error) {
	var f model.File

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, stored_name, original_name, owner_id, uploaded_at
		 FROM files WHERE id = ?`,
		id,
	).Scan(
		&f.ID,
		&f.StoredName,
		&f.OriginalName,
		&f.OwnerID,
		&f.UploadedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("file", id)
		}
		return nil, fmt.Errorf("sqlite: getting file %s: %w", id, err)
	}

	return &f, nil
}

// DeleteByID removes the metadata row. Removing the stored object is the
// caller's responsibility — the vault service deletes the object first and
// only then calls this.
func (db *DB) DeleteByID(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting file %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting file %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("file", id)
	}

	return nil
}

// ListAll returns every file row, for the reconciliation sweep.
func (db *DB) ListAll(ctx context.Context) ([]model.File, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, stored_name, original_name, owner_id, uploaded_at
		 FROM files ORDER BY uploaded_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing all files: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

func scanFiles(rows *sql.Rows) ([]model.File, error) {
	files := []model.File{}
	for rows.Next() {
		var f model.File
		if err := rows.Scan(
			&f.ID,
			&f.StoredName,
			&f.OriginalName,
			&f.OwnerID,
			&f.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating file rows: %w", err)
	}

	return files, nil
}
