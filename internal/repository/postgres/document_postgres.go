package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"foldertoword/internal/model"
	"foldertoword/internal/repository"
)

const documentColumns = `id, filename, storage_path, size, content_type, created_at`

// DocumentPostgres stores document metadata in the generated_documents table.
type DocumentPostgres struct {
	db *sql.DB
}

func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	d := new(model.Document)
	err := row.Scan(&d.ID, &d.Filename, &d.StoragePath, &d.Size, &d.ContentType, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	q := `INSERT INTO generated_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q,
		doc.ID, doc.Filename, doc.StoragePath, doc.Size, doc.ContentType, doc.CreatedAt))
}

func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM generated_documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM generated_documents WHERE id = $1`, id)
	return err
}

func (r *DocumentPostgres) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM generated_documents WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
