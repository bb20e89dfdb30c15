package session

import (
	"context"
	"sync"

	"bloom-subscription-storefront/internal/domain"
	"bloom-subscription-storefront/internal/domain/ports/repository"
)

var _ repository.SessionStore = (*MemoryStore)(nil)

// MemoryStore is an in-process SessionStore used in tests and when no Redis
// is configured. State is lost on restart, which is acceptable for
// session-scoped data.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string // sessionID -> key -> value
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if kv, ok := s.data[sessionID]; ok {
		if v, ok := kv[key]; ok {
			return v, nil
		}
	}
	return "", domain.ErrNotFound
}

func (s *MemoryStore) Set(ctx context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, ok := s.data[sessionID]
	if !ok {
		kv = make(map[string]string)
		s.data[sessionID] = kv
	}
	kv[key] = value
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kv, ok := s.data[sessionID]; ok {
		delete(kv, key)
	}
	return nil
}
