package repository

import (
	"context"

	"foldertoword/internal/model"
)

// SessionRepository remembers the last generated document per browser session.
// The session key is an opaque token supplied by the web layer.
type SessionRepository interface {
	// Put stores rec under key, replacing any previous record.
	Put(ctx context.Context, key string, rec model.SessionRecord) error

	// Get returns the record for key, or ErrSessionNotFound.
	Get(ctx context.Context, key string) (*model.SessionRecord, error)
}
