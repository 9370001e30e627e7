package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/mintaka-labs/pennywise/internal/logging"
	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/mintaka-labs/pennywise/pkg/ports"
)

// lockTTL bounds how long a distributed lock may outlive a crashed turn.
const lockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu     sync.Mutex
	refs   int
	unlock ports.UnlockFunc
}

// Manager serializes turns per user, ensuring a context is never
// mutated concurrently. It uses reference counting to garbage collect
// unused locks.
type Manager struct {
	store ports.ContextStore

	mu    sync.Mutex            // guards the map
	locks map[string]*lockEntry // active per-user locks

	locker ports.DistributedLocker // optional
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager over the given context store.
func NewManager(store ports.ContextStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference
// count. The caller must Lock entry.mu and call release(userID) after
// unlocking.
func (m *Manager) acquire(userID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[userID]
	if !exists {
		entry = &lockEntry{}
		m.locks[userID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry when it
// reaches zero.
func (m *Manager) release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[userID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, userID)
	}
}

// Load retrieves an existing context from the store.
func (m *Manager) Load(ctx context.Context, userID string) (*domain.Context, error) {
	var convo *domain.Context
	err := m.WithLock(ctx, userID, func(ctx context.Context) error {
		var err error
		convo, err = m.store.Load(ctx, userID)
		return err
	})
	return convo, err
}

// LoadOrStart tries to load a context. If not found, it initializes a
// fresh one (state "init") and persists it immediately to reserve the ID.
func (m *Manager) LoadOrStart(ctx context.Context, userID, userName string) (*domain.Context, error) {
	var convo *domain.Context
	err := m.WithLock(ctx, userID, func(ctx context.Context) error {
		var err error
		convo, err = m.store.Load(ctx, userID)
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrContextNotFound) {
			return fmt.Errorf("failed to check context existence: %w", err)
		}

		convo = domain.NewContext(userName)
		if err := m.store.Save(ctx, userID, convo); err != nil {
			return fmt.Errorf("failed to initialize context: %w", err)
		}
		return nil
	})
	return convo, err
}

// Save persists the context.
func (m *Manager) Save(ctx context.Context, userID string, convo *domain.Context) error {
	return m.WithLock(ctx, userID, func(ctx context.Context) error {
		return m.store.Save(ctx, userID, convo)
	})
}

// Delete removes the context from the store.
func (m *Manager) Delete(ctx context.Context, userID string) error {
	return m.WithLock(ctx, userID, func(ctx context.Context) error {
		return m.store.Delete(ctx, userID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying context store.
func (m *Manager) Store() ports.ContextStore {
	return m.store
}

// WithLock executes fn while holding the user's lock. Hosts run the
// whole load-process-save cycle of a turn inside it.
func (m *Manager) WithLock(ctx context.Context, userID string, fn func(context.Context) error) error {
	entry := m.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(userID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, userID, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"user_id", userID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
