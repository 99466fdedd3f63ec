package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foldertoword/internal/model"
	"foldertoword/internal/repository"
	"foldertoword/internal/repository/memory"
	repoMocks "foldertoword/internal/repository/mocks"
	"foldertoword/internal/storage"
	storeMocks "foldertoword/internal/storage/mocks"
)

func newLocalService(t *testing.T) (DocumentService, storage.Storage, *memory.DocumentMemory) {
	t.Helper()
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	repo := memory.NewDocumentMemory()
	return NewDocumentService(store, repo, memory.NewSessionMemory(time.Hour)), store, repo
}

func TestDocumentService_StoreAndOpen(t *testing.T) {
	svc, _, repo := newLocalService(t)
	ctx := context.Background()

	res := &ConversionResult{FileName: "photos.docx", Data: []byte("docx-bytes")}
	doc, err := svc.Store(ctx, "session-1", res)
	require.NoError(t, err)

	_, err = uuid.Parse(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID+".docx", doc.StoragePath)
	assert.Equal(t, int64(10), doc.Size)

	stored, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "photos.docx", stored.Filename)

	rec, err := svc.Ready(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, doc.ID, rec.DocID)
	assert.Equal(t, "photos.docx", rec.FileName)

	dl, err := svc.Open(ctx, doc.ID, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "photos.docx", dl.Name)
	assert.Equal(t, []byte("docx-bytes"), dl.Data)
}

func TestDocumentService_Open_DisplayName(t *testing.T) {
	svc, _, repo := newLocalService(t)
	ctx := context.Background()

	first, err := svc.Store(ctx, "s", &ConversionResult{FileName: "trip.docx", Data: []byte("1")})
	require.NoError(t, err)
	_, err = svc.Store(ctx, "s", &ConversionResult{FileName: "family.docx", Data: []byte("2")})
	require.NoError(t, err)

	// session now points at the second document, so the record supplies the name
	dl, err := svc.Open(ctx, first.ID, "s")
	require.NoError(t, err)
	assert.Equal(t, "trip.docx", dl.Name)

	// another browser without session state
	dl, err = svc.Open(ctx, first.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "trip.docx", dl.Name)

	// record gone: generic name
	require.NoError(t, repo.Delete(ctx, first.ID))
	dl, err = svc.Open(ctx, first.ID, "")
	require.NoError(t, err)
	assert.Equal(t, FallbackDownloadName, dl.Name)
}

func TestDocumentService_Open_NotFound(t *testing.T) {
	svc, _, _ := newLocalService(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, uuid.New().String(), "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Open(ctx, "../../etc/passwd", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentService_Ready_NoSession(t *testing.T) {
	svc, _, _ := newLocalService(t)

	rec, err := svc.Ready(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = svc.Ready(context.Background(), "unknown")
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDocumentService_Store_Errors(t *testing.T) {
	ctx := context.Background()
	res := &ConversionResult{FileName: "photos.docx", Data: []byte("data")}

	t.Run("nil result", func(t *testing.T) {
		svc := NewDocumentService(new(storeMocks.MockStorage), new(repoMocks.MockDocumentRepository), new(repoMocks.MockSessionRepository))
		_, err := svc.Store(ctx, "", nil)
		assert.ErrorIs(t, err, ErrNilResult)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))

		svc := NewDocumentService(mStore, mRepo, new(repoMocks.MockSessionRepository))
		_, err := svc.Store(ctx, "", res)

		assert.EqualError(t, err, "upload to storage: put blob: storage fail")
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("db error rolls back blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		var key string
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { key = args.String(1) }).
			Return(storage.ObjectInfo{}, nil)
		mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", mock.Anything, mock.MatchedBy(func(k string) bool { return k == key })).Return(nil)

		svc := NewDocumentService(mStore, mRepo, new(repoMocks.MockSessionRepository))
		_, err := svc.Store(ctx, "", res)

		assert.EqualError(t, err, "db save failed: db fail")
		mStore.AssertExpectations(t)
	})

	t.Run("db error and rollback error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete fail"))

		svc := NewDocumentService(mStore, mRepo, new(repoMocks.MockSessionRepository))
		_, err := svc.Store(ctx, "", res)

		assert.EqualError(t, err, "db save failed: db fail; rollback delete failed: delete fail")
	})

	t.Run("session error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mSess := new(repoMocks.MockSessionRepository)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("Create", mock.Anything, mock.Anything).Return(&model.Document{ID: "x"}, nil)
		mSess.On("Put", mock.Anything, "sess", mock.MatchedBy(func(rec model.SessionRecord) bool {
			return rec.FileName == "photos.docx" && rec.DocID != ""
		})).Return(errors.New("redis down"))
		var id string
		mRepo.On("Delete", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { id = args.String(1) }).
			Return(nil)
		mStore.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

		svc := NewDocumentService(mStore, mRepo, mSess)
		_, err := svc.Store(ctx, "sess", res)

		assert.EqualError(t, err, "save session: redis down")
		mSess.AssertExpectations(t)
		require.NotEmpty(t, id)
		mRepo.AssertCalled(t, "Delete", mock.Anything, id)
		mStore.AssertCalled(t, "Delete", mock.Anything, id+".docx")
	})

	t.Run("session error with failed rollback", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mSess := new(repoMocks.MockSessionRepository)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("Create", mock.Anything, mock.Anything).Return(&model.Document{ID: "x"}, nil)
		mSess.On("Put", mock.Anything, "sess", mock.Anything).Return(errors.New("redis down"))
		mRepo.On("Delete", mock.Anything, mock.Anything).Return(errors.New("db gone"))
		mStore.On("Delete", mock.Anything, mock.Anything).Return(nil)

		svc := NewDocumentService(mStore, mRepo, mSess)
		_, err := svc.Store(ctx, "sess", res)

		assert.EqualError(t, err, "save session: redis down; rollback failed: db gone")
		mStore.AssertNumberOfCalls(t, "Delete", 1)
	})
}

func TestDocumentService_Store_SessionFailureLeavesNothing(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	repo := memory.NewDocumentMemory()
	mSess := new(repoMocks.MockSessionRepository)
	mSess.On("Put", mock.Anything, "sess", mock.Anything).Return(errors.New("redis down"))
	svc := NewDocumentService(store, repo, mSess)
	ctx := context.Background()

	_, err = svc.Store(ctx, "sess", &ConversionResult{FileName: "a.docx", Data: []byte("a")})
	require.Error(t, err)

	objs, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, objs)
	n, err := repo.DeleteCreatedBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDocumentService_Ready_AfterReap(t *testing.T) {
	svc, _, _ := newLocalService(t)
	ctx := context.Background()

	_, err := svc.Store(ctx, "s", &ConversionResult{FileName: "a.docx", Data: []byte("a")})
	require.NoError(t, err)
	rec, err := svc.Ready(ctx, "s")
	require.NoError(t, err)
	require.NotNil(t, rec)

	_, err = svc.Reap(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)

	rec, err = svc.Ready(ctx, "s")
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDocumentService_Ready_RecordLookupError(t *testing.T) {
	mRepo := new(repoMocks.MockDocumentRepository)
	mSess := new(repoMocks.MockSessionRepository)
	mSess.On("Get", mock.Anything, "s").Return(&model.SessionRecord{DocID: "d1"}, nil)
	mRepo.On("FindByID", mock.Anything, "d1").Return(nil, errors.New("db gone"))

	svc := NewDocumentService(new(storeMocks.MockStorage), mRepo, mSess)
	rec, err := svc.Ready(context.Background(), "s")

	assert.EqualError(t, err, "db gone")
	assert.Nil(t, rec)
}

func TestDocumentService_Open_StorageError(t *testing.T) {
	mStore := new(storeMocks.MockStorage)
	id := uuid.New().String()
	mStore.On("Get", mock.Anything, id+".docx").Return(nil, storage.ObjectInfo{}, errors.New("timeout"))

	svc := NewDocumentService(mStore, new(repoMocks.MockDocumentRepository), new(repoMocks.MockSessionRepository))
	_, err := svc.Open(context.Background(), id, "")

	assert.EqualError(t, err, "timeout")
}

func TestDocumentService_Reap(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockDocumentRepository)

	cutoff := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	oldID := uuid.New().String()
	freshID := uuid.New().String()

	mStore.On("List", ctx, "").Return([]storage.ObjectInfo{
		{Key: oldID + ".docx", LastModified: cutoff.Add(-time.Minute)},
		{Key: freshID + ".docx", LastModified: cutoff.Add(time.Minute)},
		{Key: "report.docx", LastModified: cutoff.Add(-time.Hour)},
		{Key: "someone-elses.tmp", LastModified: cutoff.Add(-time.Hour)},
	}, nil)
	mStore.On("Delete", ctx, oldID+".docx").Return(nil)
	mRepo.On("Delete", ctx, oldID).Return(nil)
	mRepo.On("DeleteCreatedBefore", ctx, cutoff).Return(int64(2), nil)

	svc := NewDocumentService(mStore, mRepo, new(repoMocks.MockSessionRepository))
	n, err := svc.Reap(ctx, cutoff)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
	mStore.AssertNotCalled(t, "Delete", ctx, freshID+".docx")
	mStore.AssertNotCalled(t, "Delete", ctx, "report.docx")
}

func TestDocumentService_Reap_PruneError(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockDocumentRepository)
	cutoff := time.Now()

	mStore.On("List", ctx, "").Return([]storage.ObjectInfo{}, nil)
	mRepo.On("DeleteCreatedBefore", ctx, cutoff).Return(int64(0), errors.New("db gone"))

	svc := NewDocumentService(mStore, mRepo, new(repoMocks.MockSessionRepository))
	n, err := svc.Reap(ctx, cutoff)

	assert.EqualError(t, err, "prune records: db gone")
	assert.Zero(t, n)
}

func TestDocumentService_Reap_LocalStorage(t *testing.T) {
	svc, store, repo := newLocalService(t)
	ctx := context.Background()

	doc, err := svc.Store(ctx, "", &ConversionResult{FileName: "a.docx", Data: []byte("a")})
	require.NoError(t, err)
	_, err = store.Put(ctx, "notes.txt", bytes.NewReader([]byte("keep")), storage.PutObjectOptions{Size: 4})
	require.NoError(t, err)

	n, err := svc.Reap(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.FindByID(ctx, doc.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	rc, _, err := store.Get(ctx, "notes.txt")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "keep", string(body))
}

func TestBlobID(t *testing.T) {
	id := uuid.New().String()

	got, ok := BlobID(id + ".docx")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	for _, key := range []string{id, id + ".txt", "photos.docx", "", ".docx"} {
		_, ok := BlobID(key)
		assert.False(t, ok, key)
	}
}
