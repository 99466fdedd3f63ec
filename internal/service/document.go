package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"foldertoword/internal/docx"
	"foldertoword/internal/model"
	"foldertoword/internal/repository"
	"foldertoword/internal/storage"
)

// FallbackDownloadName is used when neither the session nor the record knows the file name.
const FallbackDownloadName = "document.docx"

var (
	ErrNotFound  = errors.New("document not found")
	ErrNilResult = errors.New("conversion result is nil")
)

var now = time.Now

// Download is a stored document ready to be streamed.
type Download struct {
	Name string
	Data []byte
}

// DocumentService keeps generated documents for later download.
type DocumentService interface {
	// Store saves the document under a fresh id, records its metadata and, when
	// sessionKey is not empty, remembers it as the session's latest document.
	Store(ctx context.Context, sessionKey string, res *ConversionResult) (*model.Document, error)

	// Open loads a stored document. Unknown or malformed ids yield ErrNotFound.
	Open(ctx context.Context, id, sessionKey string) (*Download, error)

	// Ready returns the session's latest document, or nil if there is none or it
	// has since been reaped.
	Ready(ctx context.Context, sessionKey string) (*model.SessionRecord, error)

	// Reap deletes documents last modified before cutoff and returns how many were removed.
	Reap(ctx context.Context, cutoff time.Time) (int, error)
}

type documentService struct {
	store    storage.Storage
	blobs    BlobStore
	repo     repository.DocumentRepository
	sessions repository.SessionRepository
}

// NewDocumentService constructs a DocumentService over a storage backend and its repositories.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, sessions repository.SessionRepository) DocumentService {
	return &documentService{
		store:    store,
		blobs:    NewBlobStore(store),
		repo:     repo,
		sessions: sessions,
	}
}

func (s *documentService) Store(ctx context.Context, sessionKey string, res *ConversionResult) (*model.Document, error) {
	if res == nil {
		return nil, ErrNilResult
	}
	ctx, span := tracer.Start(ctx, "documents.Store")
	defer span.End()

	id := uuid.New().String()
	span.SetAttributes(attribute.String("document.id", id))

	if _, err := s.blobs.Put(ctx, id, res.Data); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          id,
		Filename:    res.FileName,
		StoragePath: BlobKey(id),
		Size:        int64(len(res.Data)),
		ContentType: docx.MIMEType,
		CreatedAt:   now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, id); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if sessionKey != "" {
		rec := model.SessionRecord{DocID: id, FileName: res.FileName, UpdatedAt: doc.CreatedAt}
		if err := s.sessions.Put(ctx, sessionKey, rec); err != nil {
			if rbErr := s.discard(ctx, id); rbErr != nil {
				return nil, fmt.Errorf("save session: %v; rollback failed: %v", err, rbErr)
			}
			return nil, fmt.Errorf("save session: %w", err)
		}
	}
	return stored, nil
}

// discard removes both the blob and the record of a document that could not be
// handed to its session.
func (s *documentService) discard(ctx context.Context, id string) error {
	return errors.Join(s.repo.Delete(ctx, id), s.blobs.Delete(ctx, id))
}

func (s *documentService) Open(ctx context.Context, id, sessionKey string) (*Download, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, span := tracer.Start(ctx, "documents.Open")
	defer span.End()
	span.SetAttributes(attribute.String("document.id", id))

	data, err := s.blobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Download{Name: s.displayName(ctx, id, sessionKey), Data: data}, nil
}

// displayName prefers the session's remembered name, then the stored record.
func (s *documentService) displayName(ctx context.Context, id, sessionKey string) string {
	if sessionKey != "" {
		if rec, err := s.sessions.Get(ctx, sessionKey); err == nil && rec.DocID == id && rec.FileName != "" {
			return rec.FileName
		}
	}
	if doc, err := s.repo.FindByID(ctx, id); err == nil && doc.Filename != "" {
		return doc.Filename
	}
	return FallbackDownloadName
}

func (s *documentService) Ready(ctx context.Context, sessionKey string) (*model.SessionRecord, error) {
	if sessionKey == "" {
		return nil, nil
	}
	rec, err := s.sessions.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// The reaper may have removed the document since the session saw it.
	if _, err := s.repo.FindByID(ctx, rec.DocID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (s *documentService) Reap(ctx context.Context, cutoff time.Time) (int, error) {
	ctx, span := tracer.Start(ctx, "documents.Reap")
	defer span.End()

	objects, err := s.store.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list storage: %w", err)
	}

	removed := 0
	for _, obj := range objects {
		id, ok := BlobID(obj.Key)
		if !ok || !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			return removed, fmt.Errorf("delete %s: %w", obj.Key, err)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return removed, fmt.Errorf("delete record %s: %w", id, err)
		}
		removed++
	}

	// rows whose blob was already gone
	orphans, err := s.repo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return removed, fmt.Errorf("prune records: %w", err)
	}
	span.SetAttributes(
		attribute.Int("documents.removed", removed),
		attribute.Int64("documents.orphans", orphans),
	)
	return removed, nil
}
