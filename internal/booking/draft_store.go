// Package booking sequences the multi-step seat purchase: pick a show,
// pick a row, pick a cell, confirm.  Partial selections live in a
// BookingDraft keyed by a per-caller session identifier; the draft store
// carries that state between HTTP requests.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// DraftStore persists booking drafts between requests.  Get reports
// presence with its second return so a missing draft is not an error.
type DraftStore interface {
	Get(ctx context.Context, sessionID string) (model.BookingDraft, bool, error)
	Put(ctx context.Context, sessionID string, draft model.BookingDraft) error
	Delete(ctx context.Context, sessionID string) error
}

const draftKeyPrefix = "draft:"

// DefaultDraftTTL bounds how long an abandoned selection survives.  A
// caller that walks away mid-booking holds no seat (the draft reserves
// nothing), so expiry only tidies up storage.
const DefaultDraftTTL = 30 * time.Minute

// RedisDraftStore keeps drafts in Redis as JSON with a TTL, so drafts
// survive process restarts and are shared between replicas.
type RedisDraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDraftStore builds a store over the given client.  A zero or
// negative ttl falls back to DefaultDraftTTL.
func NewRedisDraftStore(rdb *redis.Client, ttl time.Duration) *RedisDraftStore {
	if rdb == nil {
		panic("nil redis client passed to NewRedisDraftStore")
	}
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &RedisDraftStore{rdb: rdb, ttl: ttl}
}

func (s *RedisDraftStore) Get(ctx context.Context, sessionID string) (model.BookingDraft, bool, error) {
	raw, err := s.rdb.Get(ctx, draftKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.BookingDraft{}, false, nil
	}
	if err != nil {
		return model.BookingDraft{}, false, err
	}
	var d model.BookingDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		// A corrupt draft is unrecoverable; treat it as absent so the
		// caller restarts the flow instead of erroring forever.
		_ = s.rdb.Del(ctx, draftKeyPrefix+sessionID).Err()
		return model.BookingDraft{}, false, nil
	}
	return d, true, nil
}

func (s *RedisDraftStore) Put(ctx context.Context, sessionID string, draft model.BookingDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, draftKeyPrefix+sessionID, raw, s.ttl).Err()
}

func (s *RedisDraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, draftKeyPrefix+sessionID).Err()
}

// MemoryDraftStore keeps drafts in a process-local map.  It serves
// deployments without Redis and the test suite.  Entries never expire;
// Confirm and Cancel delete them explicitly.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string]model.BookingDraft
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string]model.BookingDraft)}
}

func (s *MemoryDraftStore) Get(_ context.Context, sessionID string) (model.BookingDraft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionID]
	return d, ok, nil
}

func (s *MemoryDraftStore) Put(_ context.Context, sessionID string, draft model.BookingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = draft
	return nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}
