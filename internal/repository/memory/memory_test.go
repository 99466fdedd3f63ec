package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"foldertoword/internal/model"
	"foldertoword/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMemory(t *testing.T) {
	repo := NewDocumentMemory()
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	created, err := repo.Create(ctx, &model.Document{ID: "a", Filename: "a.docx", Size: 3})
	require.NoError(t, err)
	assert.Equal(t, "a.docx", created.Filename)

	found, err := repo.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.Size)

	// returned copies must not alias stored state
	found.Filename = "changed"
	again, _ := repo.FindByID(ctx, "a")
	assert.Equal(t, "a.docx", again.Filename)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.FindByID(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDocumentMemory_DeleteCreatedBefore(t *testing.T) {
	repo := NewDocumentMemory()
	ctx := context.Background()
	cutoff := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, _ = repo.Create(ctx, &model.Document{ID: "old", CreatedAt: cutoff.Add(-time.Second)})
	_, _ = repo.Create(ctx, &model.Document{ID: "edge", CreatedAt: cutoff})
	_, _ = repo.Create(ctx, &model.Document{ID: "new", CreatedAt: cutoff.Add(time.Hour)})

	n, err := repo.DeleteCreatedBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindByID(ctx, "old")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.FindByID(ctx, "edge")
	assert.NoError(t, err)
}

func TestSessionMemory(t *testing.T) {
	repo := NewSessionMemory(0)
	ctx := context.Background()

	_, err := repo.Get(ctx, "s")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	require.NoError(t, repo.Put(ctx, "s", model.SessionRecord{DocID: "1", FileName: "one.docx", UpdatedAt: time.Now()}))
	require.NoError(t, repo.Put(ctx, "s", model.SessionRecord{DocID: "2", FileName: "two.docx", UpdatedAt: time.Now()}))

	rec, err := repo.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "2", rec.DocID)
	assert.Equal(t, "two.docx", rec.FileName)
}

func TestSessionMemory_Concurrent(t *testing.T) {
	repo := NewSessionMemory(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Put(ctx, "k", model.SessionRecord{DocID: "x"})
			_, _ = repo.Get(ctx, "k")
		}()
	}
	wg.Wait()

	rec, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "x", rec.DocID)
}

func TestSessionMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := NewSessionMemory(time.Hour)
	repo.now = func() time.Time { return clock }

	require.NoError(t, repo.Put(ctx, "a", model.SessionRecord{DocID: "1"}))
	clock = clock.Add(30 * time.Minute)
	require.NoError(t, repo.Put(ctx, "b", model.SessionRecord{DocID: "2"}))

	clock = clock.Add(40 * time.Minute)
	_, err := repo.Get(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	rec, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", rec.DocID)

	// untouched records are dropped by the next sweep, not only on Get
	clock = clock.Add(2 * time.Hour)
	require.NoError(t, repo.Put(ctx, "c", model.SessionRecord{DocID: "3"}))
	assert.Len(t, repo.recs, 1)
	assert.Contains(t, repo.recs, "c")
}

func TestSessionMemory_PutRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := NewSessionMemory(time.Hour)
	repo.now = func() time.Time { return clock }

	require.NoError(t, repo.Put(ctx, "a", model.SessionRecord{DocID: "1"}))
	clock = clock.Add(50 * time.Minute)
	require.NoError(t, repo.Put(ctx, "a", model.SessionRecord{DocID: "2"}))
	clock = clock.Add(50 * time.Minute)

	rec, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", rec.DocID)
}
