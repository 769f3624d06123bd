package services

import (
	"slices"
	"time"

	"nexus-market/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewOrderID returns an "ORD-" id built on a time-ordered UUIDv7, unique per call
// even within the same clock tick.
func NewOrderID() string {
	return "ORD-" + uuid.Must(uuid.NewV7()).String()
}

// BuildOrder turns the cart into a paid order. It does not touch any state;
// the caller records the order and clears the cart.
func BuildOrder(user *domain.User, cart []domain.CartItem, address string, now time.Time, id string) (*domain.Order, error) {
	if user == nil {
		return nil, ErrNoCurrentUser
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	items := slices.Clone(cart)
	return &domain.Order{
		ID:        id,
		BuyerID:   user.ID,
		Items:     items,
		Total:     CartTotal(items),
		Status:    domain.StatusPaid,
		Address:   address,
		CreatedAt: now,
	}, nil
}

// CartTotal is the sum of price times quantity, summed in decimal so that
// cent prices do not drift.
func CartTotal(items []domain.CartItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total.InexactFloat64()
}

func CartCount(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
