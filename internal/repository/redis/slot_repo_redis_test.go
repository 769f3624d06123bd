package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexus-market/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func TestSlotStore_Get(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(*MockRedisClient)
		expected    string
		expectedErr error
	}{
		{
			name: "hit",
			setupMocks: func(m *MockRedisClient) {
				m.On("Get", mock.Anything, "nexus:nexus_cart").Return(redis.NewStringResult(`[]`, nil))
			},
			expected: `[]`,
		},
		{
			name: "missing key",
			setupMocks: func(m *MockRedisClient) {
				m.On("Get", mock.Anything, "nexus:nexus_cart").Return(redis.NewStringResult("", redis.Nil))
			},
			expectedErr: repository.ErrSlotNotFound,
		},
		{
			name: "connection error",
			setupMocks: func(m *MockRedisClient) {
				m.On("Get", mock.Anything, "nexus:nexus_cart").Return(redis.NewStringResult("", errors.New("connection refused")))
			},
			expectedErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockRedisClient)
			tt.setupMocks(m)
			s := newSlotStoreWith(m)

			got, err := s.Get(context.Background(), repository.CartSlot)
			if tt.expectedErr != nil {
				if tt.expectedErr == repository.ErrSlotNotFound {
					assert.ErrorIs(t, err, repository.ErrSlotNotFound)
				} else {
					assert.ErrorContains(t, err, tt.expectedErr.Error())
				}
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, string(got))
			}
			m.AssertExpectations(t)
		})
	}
}

func TestSlotStore_PutNeverExpires(t *testing.T) {
	m := new(MockRedisClient)
	m.On("Set", mock.Anything, "nexus:nexus_user", []byte(`null`), time.Duration(0)).Return(redis.NewStatusResult("OK", nil))

	s := newSlotStoreWith(m)
	require.NoError(t, s.Put(context.Background(), repository.SessionSlot, []byte(`null`)))
	assert.NoError(t, s.Close())
	m.AssertExpectations(t)
}
