package memory

import (
	"context"
	"sync"
	"time"

	"foldertoword/internal/model"
	"foldertoword/internal/repository"
)

type sessionEntry struct {
	rec       model.SessionRecord
	expiresAt time.Time
}

// SessionMemory keeps session records in a map. Each record lives for ttl after
// its last Put; a non-positive ttl keeps records forever. Expired records are
// swept at most once per ttl from Put.
type SessionMemory struct {
	mu        sync.Mutex
	recs      map[string]sessionEntry
	ttl       time.Duration
	nextSweep time.Time
	now       func() time.Time
}

func NewSessionMemory(ttl time.Duration) *SessionMemory {
	return &SessionMemory{
		recs: make(map[string]sessionEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

var _ repository.SessionRepository = (*SessionMemory)(nil)

func (r *SessionMemory) Put(_ context.Context, key string, rec model.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	e := sessionEntry{rec: rec}
	if r.ttl > 0 {
		e.expiresAt = now.Add(r.ttl)
		if !now.Before(r.nextSweep) {
			r.sweep(now)
			r.nextSweep = now.Add(r.ttl)
		}
	}
	r.recs[key] = e
	return nil
}

func (r *SessionMemory) Get(_ context.Context, key string) (*model.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.recs[key]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	if r.expired(e, r.now()) {
		delete(r.recs, key)
		return nil, repository.ErrSessionNotFound
	}
	rec := e.rec
	return &rec, nil
}

func (r *SessionMemory) expired(e sessionEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (r *SessionMemory) sweep(now time.Time) {
	for k, e := range r.recs {
		if r.expired(e, now) {
			delete(r.recs, k)
		}
	}
}
