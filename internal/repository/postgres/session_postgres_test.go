package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"foldertoword/internal/model"
	"foldertoword/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionPostgres_Put(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionPostgres(db)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO gallery_sessions (.+) ON CONFLICT").
		WithArgs("sess-1", "doc-1", "photos.docx", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Put(context.Background(), "sess-1", model.SessionRecord{DocID: "doc-1", FileName: "photos.docx", UpdatedAt: now})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPostgres_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		mock.ExpectQuery("SELECT (.+) FROM gallery_sessions WHERE session_key = ?").
			WithArgs("sess-1").
			WillReturnRows(sqlmock.NewRows([]string{"doc_id", "file_name", "updated_at"}).AddRow("doc-1", "photos.docx", now))

		rec, err := repo.Get(ctx, "sess-1")

		require.NoError(t, err)
		assert.Equal(t, "doc-1", rec.DocID)
		assert.Equal(t, "photos.docx", rec.FileName)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM gallery_sessions WHERE session_key = ?").
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		rec, err := repo.Get(ctx, "nope")

		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
		assert.Nil(t, rec)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
