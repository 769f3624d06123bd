package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"nexus-market/internal/repository"
)

// SlotStore writes each slot to <dir>/<key>.json.
type SlotStore struct {
	dir string
}

var _ repository.SlotStore = (*SlotStore)(nil)

func NewSlotStore(dir string) (*SlotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &SlotStore{dir: dir}, nil
}

func (s *SlotStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, repository.ErrSlotNotFound
	}
	return b, err
}

// Put replaces the slot atomically: a crash mid-write leaves the previous contents.
func (s *SlotStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

func (s *SlotStore) Close() error { return nil }
