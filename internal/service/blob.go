package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"foldertoword/internal/docx"
	"foldertoword/internal/storage"
)

const blobExt = ".docx"

// BlobStore holds generated documents by id.
type BlobStore interface {
	Put(ctx context.Context, id string, data []byte) (string, error)
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// BlobKey is the storage key for a document id.
func BlobKey(id string) string {
	return id + blobExt
}

// BlobID returns the document id for a storage key. Only "<uuid>.docx" keys
// qualify, so shared directories never have foreign files touched.
func BlobID(key string) (string, bool) {
	id, ok := strings.CutSuffix(key, blobExt)
	if !ok {
		return "", false
	}
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return "", false
	}
	return id, true
}

type blobStore struct {
	store storage.Storage
}

// NewBlobStore adapts a storage backend to a BlobStore.
func NewBlobStore(store storage.Storage) BlobStore {
	return &blobStore{store: store}
}

func (b *blobStore) Put(ctx context.Context, id string, data []byte) (string, error) {
	_, err := b.store.Put(ctx, BlobKey(id), bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: docx.MIMEType,
	})
	if err != nil {
		return "", fmt.Errorf("put blob: %w", err)
	}
	return id, nil
}

func (b *blobStore) Get(ctx context.Context, id string) ([]byte, error) {
	rc, _, err := b.store.Get(ctx, BlobKey(id))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

func (b *blobStore) Delete(ctx context.Context, id string) error {
	return b.store.Delete(ctx, BlobKey(id))
}
