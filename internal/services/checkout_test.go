package services

import (
	"testing"

	"nexus-market/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrder(t *testing.T) {
	buyer := &domain.User{ID: "u1", Role: domain.RoleBuyer}
	cart := []domain.CartItem{
		{Product: CreateMockProduct("a", "Phone", 10), Quantity: 2},
		{Product: CreateMockProduct("b", "Cable", 0.1), Quantity: 3},
	}

	tests := []struct {
		name          string
		user          *domain.User
		cart          []domain.CartItem
		expectedError error
	}{
		{name: "no user", cart: cart, expectedError: ErrNoCurrentUser},
		{name: "no user and empty cart reports user first", expectedError: ErrNoCurrentUser},
		{name: "empty cart", user: buyer, cart: []domain.CartItem{}, expectedError: ErrEmptyCart},
		{name: "success", user: buyer, cart: cart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := BuildOrder(tt.user, tt.cart, TestAddress, TestNow, "ORD-1")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ORD-1", order.ID)
			assert.Equal(t, "u1", order.BuyerID)
			assert.Equal(t, domain.StatusPaid, order.Status)
			assert.Equal(t, TestAddress, order.Address)
			assert.Equal(t, TestNow, order.CreatedAt)
			assert.Equal(t, 20.3, order.Total)
			assert.Equal(t, tt.cart, order.Items)
		})
	}
}

func TestBuildOrder_ItemsAreACopy(t *testing.T) {
	cart := []domain.CartItem{{Product: CreateMockProduct("a", "Phone", 10), Quantity: 1}}
	order, err := BuildOrder(&domain.User{ID: "u1"}, cart, TestAddress, TestNow, "ORD-1")
	require.NoError(t, err)

	cart[0].Quantity = 9
	cart[0].Title = "changed"
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.Equal(t, "Phone", order.Items[0].Title)
}

func TestNewOrderID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewOrderID()
		assert.Regexp(t, `^ORD-[0-9a-f-]{36}$`, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestCartCount(t *testing.T) {
	cart := []domain.CartItem{
		{Product: CreateMockProduct("a", "Phone", 10), Quantity: 2},
		{Product: CreateMockProduct("b", "Cable", 1), Quantity: 3},
	}
	assert.Equal(t, 5, CartCount(cart))
	assert.Equal(t, 0, CartCount(nil))
	assert.Equal(t, 23.0, CartTotal(cart))
}
