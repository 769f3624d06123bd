package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexus-market/internal/domain"
	"nexus-market/internal/repository"
	"nexus-market/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSlots struct {
	getErr error
	putErr error
}

func (f failingSlots) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }
func (f failingSlots) Put(context.Context, string, []byte) error   { return f.putErr }
func (f failingSlots) Close() error                                 { return nil }

func TestStateRepository_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewStateRepository(memory.NewSlotStore())

	snap, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Orders)
	assert.Equal(t, domain.SeedProducts(), snap.Products)

	user, err := repo.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	cart, err := repo.LoadCart(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
}

func TestStateRepository_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewStateRepository(memory.NewSlotStore())
	created := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC)

	product := domain.SeedProducts()[0]
	snap := &domain.Snapshot{
		Users: []domain.User{
			{ID: "u1", Name: "Alex", Email: "alex@x.com", Role: domain.RoleBuyer, Password: "pw", CreatedAt: created},
			{ID: "u2", Name: "Sam", Email: "sam@x.com", Role: domain.RoleSeller, Password: "pw2", CreatedAt: created},
		},
		Products: []domain.Product{product, {ID: "p9", Title: "Lamp", Price: 12.5, Stock: 3, SellerID: "u2"}},
		Orders: []domain.Order{{
			ID:        "ORD-1",
			BuyerID:   "u1",
			Items:     []domain.CartItem{{Product: product, Quantity: 2}},
			Total:     1998,
			Status:    domain.StatusPaid,
			Address:   "1 Main St",
			CreatedAt: created,
		}},
	}

	require.NoError(t, repo.SaveSnapshot(ctx, snap))
	got, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestStateRepository_SessionAndCart(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotStore()
	repo := repository.NewStateRepository(slots)

	user := &domain.User{ID: "u1", Email: "alex@x.com", Role: domain.RoleBuyer, CreatedAt: time.Unix(0, 0).UTC()}
	require.NoError(t, repo.SaveSession(ctx, user))
	got, err := repo.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	require.NoError(t, repo.SaveSession(ctx, nil))
	raw, err := slots.Get(ctx, repository.SessionSlot)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
	got, err = repo.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.SaveCart(ctx, nil))
	raw, err = slots.Get(ctx, repository.CartSlot)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	cart := []domain.CartItem{{Product: domain.Product{ID: "1", Price: 10}, Quantity: 2}}
	require.NoError(t, repo.SaveCart(ctx, cart))
	loaded, err := repo.LoadCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, cart, loaded)
}

func TestStateRepository_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("read failure surfaces", func(t *testing.T) {
		repo := repository.NewStateRepository(failingSlots{getErr: errors.New("io timeout")})
		_, err := repo.LoadSnapshot(ctx)
		assert.ErrorContains(t, err, "io timeout")
	})

	t.Run("write failure surfaces", func(t *testing.T) {
		repo := repository.NewStateRepository(failingSlots{putErr: errors.New("quota exceeded")})
		err := repo.SaveCart(ctx, nil)
		assert.ErrorContains(t, err, "write slot nexus_cart")
		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("corrupt slot", func(t *testing.T) {
		slots := memory.NewSlotStore()
		require.NoError(t, slots.Put(ctx, repository.SnapshotSlot, []byte("{not json")))
		repo := repository.NewStateRepository(slots)
		_, err := repo.LoadSnapshot(ctx)
		assert.ErrorContains(t, err, "decode slot nexus_db_mock")
	})
}
