// Package redis stores session records in Redis with a per-key TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"foldertoword/internal/config"
	"foldertoword/internal/model"
	"foldertoword/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

// Cmdable is the subset of the go-redis client used by SessionRedis.
type Cmdable interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// SessionRedis implements repository.SessionRepository on Redis strings holding JSON.
type SessionRedis struct {
	client Cmdable
	prefix string
	ttl    time.Duration
}

var _ repository.SessionRepository = (*SessionRedis)(nil)

// NewClient opens a client and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewSessionRedis wraps client. A zero ttl keeps records forever.
func NewSessionRedis(client Cmdable, prefix string, ttl time.Duration) *SessionRedis {
	return &SessionRedis{client: client, prefix: prefix, ttl: ttl}
}

func (r *SessionRedis) key(k string) string {
	return r.prefix + "session:" + k
}

func (r *SessionRedis) Put(ctx context.Context, key string, rec model.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *SessionRedis) Get(ctx context.Context, key string) (*model.SessionRecord, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var rec model.SessionRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &rec, nil
}
