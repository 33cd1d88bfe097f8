package oauth2

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bitbucketauth/pkg/cache"
)

func TestInMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStorage()
	defer s.Close()

	t.Run("consume once", func(t *testing.T) {
		assert.NoError(t, s.Save(ctx, "s1", time.Now().Add(time.Minute)))
		assert.NoError(t, s.Consume(ctx, "s1"))
		assert.ErrorIs(t, s.Consume(ctx, "s1"), ErrStateNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		assert.NoError(t, s.Save(ctx, "s2", time.Now().Add(-time.Second)))
		assert.ErrorIs(t, s.Consume(ctx, "s2"), ErrStateExpired)
		assert.ErrorIs(t, s.Consume(ctx, "s2"), ErrStateNotFound)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.ErrorIs(t, s.Consume(ctx, "nope"), ErrStateNotFound)
	})

	t.Run("sweep", func(t *testing.T) {
		assert.NoError(t, s.Save(ctx, "old", time.Now().Add(-time.Minute)))
		assert.NoError(t, s.Save(ctx, "new", time.Now().Add(time.Minute)))
		s.removeExpired()

		s.mu.Lock()
		_, hasOld := s.data["old"]
		_, hasNew := s.data["new"]
		s.mu.Unlock()
		assert.False(t, hasOld)
		assert.True(t, hasNew)
	})

	t.Run("close twice", func(t *testing.T) {
		assert.NoError(t, s.Close())
		assert.NoError(t, s.Close())
	})
}

// MockCache is a mock implementation of cache.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Take(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Del(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Close() error {
	return m.Called().Error(0)
}

func TestCacheStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("save sets key with ttl", func(t *testing.T) {
		mockCache := new(MockCache)
		s := NewCacheStorage(mockCache)

		mockCache.On("Set", ctx, "oauth2:state:abc", "1", mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 0 && ttl <= time.Minute
		})).Return(nil)

		assert.NoError(t, s.Save(ctx, "abc", time.Now().Add(time.Minute)))
		mockCache.AssertExpectations(t)
	})

	t.Run("save rejects past expiry", func(t *testing.T) {
		mockCache := new(MockCache)
		s := NewCacheStorage(mockCache)

		assert.ErrorIs(t, s.Save(ctx, "abc", time.Now().Add(-time.Second)), ErrStateExpired)
		mockCache.AssertNotCalled(t, "Set")
	})

	t.Run("consume takes key", func(t *testing.T) {
		mockCache := new(MockCache)
		s := NewCacheStorage(mockCache)

		mockCache.On("Take", ctx, "oauth2:state:abc").Return("1", nil)

		assert.NoError(t, s.Consume(ctx, "abc"))
		mockCache.AssertExpectations(t)
	})

	t.Run("consume missing key", func(t *testing.T) {
		mockCache := new(MockCache)
		s := NewCacheStorage(mockCache)

		mockCache.On("Take", ctx, "oauth2:state:abc").Return("", cache.ErrNotFound)

		assert.ErrorIs(t, s.Consume(ctx, "abc"), ErrStateNotFound)
	})

	t.Run("consume backend error", func(t *testing.T) {
		mockCache := new(MockCache)
		s := NewCacheStorage(mockCache)
		boom := errors.New("connection refused")

		mockCache.On("Take", ctx, "oauth2:state:abc").Return("", boom)

		assert.ErrorIs(t, s.Consume(ctx, "abc"), boom)
	})

	t.Run("close leaves cache open", func(t *testing.T) {
		mockCache := new(MockCache)
		s := NewCacheStorage(mockCache)

		assert.NoError(t, s.Close())
		mockCache.AssertNotCalled(t, "Close")
	})
}
