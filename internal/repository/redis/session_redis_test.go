package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"foldertoword/internal/model"
	"foldertoword/internal/repository"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.getErr != nil {
		return goredis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, exp time.Duration) *goredis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = exp
	return goredis.NewStatusResult("OK", nil)
}

func TestSessionRedis_PutGet(t *testing.T) {
	client := newFakeClient()
	repo := NewSessionRedis(client, "ftw:", time.Hour)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Put(ctx, "abc", model.SessionRecord{DocID: "doc-1", FileName: "trip.docx", UpdatedAt: now}))

	assert.Contains(t, client.data, "ftw:session:abc")
	assert.Equal(t, time.Hour, client.ttls["ftw:session:abc"])

	rec, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", rec.DocID)
	assert.Equal(t, "trip.docx", rec.FileName)
	assert.True(t, now.Equal(rec.UpdatedAt))
}

func TestSessionRedis_Missing(t *testing.T) {
	repo := NewSessionRedis(newFakeClient(), "ftw:", 0)

	rec, err := repo.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.Nil(t, rec)
}

func TestSessionRedis_Errors(t *testing.T) {
	client := newFakeClient()
	repo := NewSessionRedis(client, "ftw:", 0)
	ctx := context.Background()

	client.data["ftw:session:bad"] = "{not json"
	_, err := repo.Get(ctx, "bad")
	assert.ErrorContains(t, err, "decode session")

	client.getErr = errors.New("connection refused")
	_, err = repo.Get(ctx, "bad")
	assert.ErrorContains(t, err, "redis get: connection refused")
}
