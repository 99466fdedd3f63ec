// Package memory holds in-process repository implementations used when no
// database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"foldertoword/internal/model"
	"foldertoword/internal/repository"
)

// DocumentMemory keeps document records in a map.
type DocumentMemory struct {
	mu   sync.RWMutex
	docs map[string]model.Document
}

func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{docs: make(map[string]model.Document)}
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

func (r *DocumentMemory) Create(_ context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = *doc
	out := *doc
	return &out, nil
}

func (r *DocumentMemory) FindByID(_ context.Context, id string) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *DocumentMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *DocumentMemory) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, d := range r.docs {
		if d.CreatedAt.Before(cutoff) {
			delete(r.docs, id)
			n++
		}
	}
	return n, nil
}
