package memory

import (
	"context"
	"sync"

	"nexus-market/internal/repository"
)

// SlotStore keeps slots in process memory. Nothing survives a restart.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

var _ repository.SlotStore = (*SlotStore)(nil)

func NewSlotStore() *SlotStore {
	return &SlotStore{slots: map[string][]byte{}}
}

func (s *SlotStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	if !ok {
		return nil, repository.ErrSlotNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *SlotStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte(nil), value...)
	return nil
}

func (s *SlotStore) Close() error { return nil }
