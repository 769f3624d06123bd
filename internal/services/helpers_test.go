package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"nexus-market/internal/domain"
	"nexus-market/internal/repository"
	"nexus-market/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

const (
	TestAddress  = "1 Main St"
	TestPassword = "pw"
)

var TestNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func testOptions(extra ...Option) []Option {
	opts := []Option{
		WithClock(func() time.Time { return TestNow }),
		WithIDs(sequence("id-"), sequence("ORD-")),
	}
	return append(opts, extra...)
}

func newTestStore(t *testing.T, extra ...Option) (*Store, *memory.SlotStore) {
	t.Helper()
	slots := memory.NewSlotStore()
	return openOn(t, slots, extra...), slots
}

func openOn(t *testing.T, slots *memory.SlotStore, extra ...Option) *Store {
	t.Helper()
	s, err := Open(context.Background(), repository.NewStateRepository(slots), testOptions(extra...)...)
	require.NoError(t, err)
	return s
}

func signup(t *testing.T, s *Store, name, email string, role domain.UserRole) *domain.User {
	t.Helper()
	u, err := s.Signup(context.Background(), SignupInput{Name: name, Email: email, Password: TestPassword, Role: role})
	require.NoError(t, err)
	return u
}

func CreateMockProduct(id, title string, price float64) domain.Product {
	return domain.Product{
		ID:          id,
		Title:       title,
		Description: title + " description",
		Price:       price,
		Category:    "Electronics",
		Brand:       "Nexus",
		Stock:       5,
		SellerID:    "seller_1",
	}
}
