package mocks

import (
	"context"

	"nexus-market/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockStateRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockAssistant struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockAssistant) Advise(ctx context.Context, query string, products []domain.Product) (string, error) {
	args := m.Called(ctx, query, products)
	return args.String(0), args.Error(1)
}

func (m *MockStateRepository) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockStateRepository) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockStateRepository) LoadSession(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStateRepository) SaveSession(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStateRepository) LoadCart(ctx context.Context) ([]domain.CartItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *MockStateRepository) SaveCart(ctx context.Context, cart []domain.CartItem) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockStateRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
