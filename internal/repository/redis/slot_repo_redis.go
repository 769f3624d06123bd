package redis

import (
	"context"
	"errors"
	"time"

	"nexus-market/internal/repository"

	"github.com/go-redis/redis/v8"
)

const keyNamespace = "nexus"

type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SlotStore keeps every slot under nexus:<key> without expiry.
type SlotStore struct {
	store  cmdable
	closer func() error
}

var _ repository.SlotStore = (*SlotStore)(nil)

func NewSlotStore(client *redis.Client) *SlotStore {
	return &SlotStore{store: client, closer: client.Close}
}

func newSlotStoreWith(c cmdable) *SlotStore {
	return &SlotStore{store: c}
}

func slotKey(key string) string {
	return keyNamespace + ":" + key
}

func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.store.Get(ctx, slotKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *SlotStore) Put(ctx context.Context, key string, value []byte) error {
	return s.store.Set(ctx, slotKey(key), value, 0).Err()
}

func (s *SlotStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
