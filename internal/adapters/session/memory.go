// Package session holds staged edit sessions between requests.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore keeps sessions in process memory. Sessions are stored
// serialized so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a store whose janitor drops expired sessions every
// interval. Call Close to stop it.
func NewMemoryStore(interval time.Duration) *MemoryStore {
	if interval <= 0 {
		interval = time.Minute
	}
	s := &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go s.janitor(interval)
	return s
}

// Get returns the session or domain.ErrSessionNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || e.expired(s.now()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	var sess domain.Session
	if err := json.Unmarshal(e.data, &sess); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return &sess, nil
}

// Save stores the session. A zero ttl keeps it until deleted.
func (s *MemoryStore) Save(_ context.Context, sess *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", sess.ID, err)
	}

	e := &entry{data: data}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[sess.ID] = e
	s.mu.Unlock()
	return nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the janitor.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, id)
		}
	}
}
