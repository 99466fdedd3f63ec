package postgres

import (
	"context"
	"database/sql"
	"errors"

	"foldertoword/internal/model"
	"foldertoword/internal/repository"
)

// SessionPostgres stores browser session records in PostgreSQL.
type SessionPostgres struct {
	db *sql.DB
}

// NewSessionPostgres creates a new SessionPostgres repository.
func NewSessionPostgres(db *sql.DB) *SessionPostgres {
	return &SessionPostgres{db: db}
}

var _ repository.SessionRepository = (*SessionPostgres)(nil)

// Put upserts the record for key.
func (r *SessionPostgres) Put(ctx context.Context, key string, rec model.SessionRecord) error {
	const q = `
		INSERT INTO gallery_sessions (session_key, doc_id, file_name, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_key)
		DO UPDATE SET doc_id = EXCLUDED.doc_id, file_name = EXCLUDED.file_name, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, q, key, rec.DocID, rec.FileName, rec.UpdatedAt)
	return err
}

// Get returns the record stored for key.
func (r *SessionPostgres) Get(ctx context.Context, key string) (*model.SessionRecord, error) {
	const q = `
		SELECT doc_id, file_name, updated_at
		FROM gallery_sessions
		WHERE session_key = $1
	`
	var rec model.SessionRecord
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&rec.DocID, &rec.FileName, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}
	return &rec, nil
}
