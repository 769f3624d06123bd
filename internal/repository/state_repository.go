package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nexus-market/internal/domain"
)

// Fixed slot names. They match the keys the browser build used.
const (
	SnapshotSlot = "nexus_db_mock"
	SessionSlot  = "nexus_user"
	CartSlot     = "nexus_cart"
)

var ErrSlotNotFound = errors.New("slot not found")

// SlotStore is a durable key/value surface holding opaque serialized slots.
// Get returns ErrSlotNotFound when nothing was ever written under key.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// StateRepository loads and saves the three marketplace slots.
type StateRepository interface {
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error
	LoadSession(ctx context.Context) (*domain.User, error)
	SaveSession(ctx context.Context, user *domain.User) error
	LoadCart(ctx context.Context) ([]domain.CartItem, error)
	SaveCart(ctx context.Context, cart []domain.CartItem) error
	Close() error
}

type slotRepo struct {
	slots SlotStore
}

func NewStateRepository(slots SlotStore) StateRepository {
	return &slotRepo{slots: slots}
}

func (r *slotRepo) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	found, err := r.load(ctx, SnapshotSlot, &snap)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.DefaultSnapshot(), nil
	}
	snap.Normalize()
	return &snap, nil
}

func (r *slotRepo) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	return r.save(ctx, SnapshotSlot, snap)
}

// LoadSession returns nil when no user is signed in.
func (r *slotRepo) LoadSession(ctx context.Context) (*domain.User, error) {
	var user *domain.User
	if _, err := r.load(ctx, SessionSlot, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *slotRepo) SaveSession(ctx context.Context, user *domain.User) error {
	return r.save(ctx, SessionSlot, user)
}

func (r *slotRepo) LoadCart(ctx context.Context) ([]domain.CartItem, error) {
	var cart []domain.CartItem
	if _, err := r.load(ctx, CartSlot, &cart); err != nil {
		return nil, err
	}
	if cart == nil {
		cart = []domain.CartItem{}
	}
	return cart, nil
}

func (r *slotRepo) SaveCart(ctx context.Context, cart []domain.CartItem) error {
	if cart == nil {
		cart = []domain.CartItem{}
	}
	return r.save(ctx, CartSlot, cart)
}

func (r *slotRepo) Close() error {
	return r.slots.Close()
}

func (r *slotRepo) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.slots.Get(ctx, key)
	if errors.Is(err, ErrSlotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read slot %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode slot %s: %w", key, err)
	}
	return true, nil
}

func (r *slotRepo) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", key, err)
	}
	if err := r.slots.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}
