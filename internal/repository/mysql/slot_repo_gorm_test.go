package mysql

import (
	"context"
	"fmt"
	"testing"

	"nexus-market/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestSlotRepo_GetMissing(t *testing.T) {
	repo := NewSlotStore(newTestDB(t))

	_, err := repo.Get(context.Background(), repository.CartSlot)
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)
}

func TestSlotRepo_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSlotStore(db)

	require.NoError(t, repo.Put(ctx, repository.CartSlot, []byte(`[]`)))
	require.NoError(t, repo.Put(ctx, repository.CartSlot, []byte(`[{"id":"1","quantity":2}]`)))

	got, err := repo.Get(ctx, repository.CartSlot)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","quantity":2}]`, string(got))

	var count int64
	require.NoError(t, db.Model(&SlotRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSlotRepo_BacksStateRepository(t *testing.T) {
	ctx := context.Background()
	state := repository.NewStateRepository(NewSlotStore(newTestDB(t)))

	snap, err := state.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Products, 4)

	snap.Products = snap.Products[:1]
	require.NoError(t, state.SaveSnapshot(ctx, snap))

	again, err := state.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, again)
}
