package repository

import (
	"context"
	"time"

	"foldertoword/internal/model"
)

// DocumentRepository keeps metadata for documents held in blob storage.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns ErrNotFound when no record matches.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error

	// DeleteCreatedBefore drops records older than cutoff and reports how many went.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
