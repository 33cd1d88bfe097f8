package oauth2

import (
	"context"
	"errors"
	"sync"
	"time"

	"bitbucketauth/pkg/cache"
)

// StateStorage keeps the CSRF states issued by BeginAuth until the
// provider redirects back. A state can be consumed only once.
type StateStorage interface {
	Save(ctx context.Context, state string, expiresAt time.Time) error
	Consume(ctx context.Context, state string) error
	Close() error
}

// InMemoryStorage implements StateStorage for a single process.
type InMemoryStorage struct {
	mu   sync.Mutex
	data map[string]time.Time
	done chan struct{}
	once sync.Once
}

func NewInMemoryStorage() *InMemoryStorage {
	s := &InMemoryStorage{
		data: make(map[string]time.Time),
		done: make(chan struct{}),
	}
	go s.cleanupRoutine()
	return s
}

func (s *InMemoryStorage) Save(_ context.Context, state string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[state] = expiresAt
	return nil
}

func (s *InMemoryStorage) Consume(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, exists := s.data[state]
	if !exists {
		return ErrStateNotFound
	}
	delete(s.data, state)

	if time.Now().After(expiresAt) {
		return ErrStateExpired
	}

	return nil
}

func (s *InMemoryStorage) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	return nil
}

func (s *InMemoryStorage) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.done:
			return
		}
	}
}

func (s *InMemoryStorage) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for state, expiresAt := range s.data {
		if now.After(expiresAt) {
			delete(s.data, state)
		}
	}
}

const stateKeyPrefix = "oauth2:state:"

// CacheStorage implements StateStorage on a shared cache, so any instance
// behind a load balancer can complete a flow started by another.
type CacheStorage struct {
	cache cache.Cache
}

func NewCacheStorage(c cache.Cache) *CacheStorage {
	return &CacheStorage{cache: c}
}

func (s *CacheStorage) Save(ctx context.Context, state string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return ErrStateExpired
	}
	return s.cache.Set(ctx, stateKeyPrefix+state, "1", ttl)
}

// Consume deletes the state. The cache expires keys on its own, so a
// missing key covers both unknown and expired states.
func (s *CacheStorage) Consume(ctx context.Context, state string) error {
	_, err := s.cache.Take(ctx, stateKeyPrefix+state)
	if errors.Is(err, cache.ErrNotFound) {
		return ErrStateNotFound
	}
	return err
}

// Close is a no-op; the cache belongs to the caller.
func (s *CacheStorage) Close() error {
	return nil
}
