package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/wicker/internal/logging"
	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/ports"
)

// lockEntry holds one conversation's mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access. It guarantees at most one turn per
// conversation ID at a time while leaving distinct conversations free to
// proceed concurrently. Lock entries are garbage collected by reference
// counting once no turn holds or waits on them.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking on top of the local mutexes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager over the given store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must Lock entry.mu and call release(conversationID) after
// unlocking.
func (m *Manager) acquire(conversationID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[conversationID]
	if !ok {
		entry = &lockEntry{}
		m.locks[conversationID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and drops the entry at zero.
func (m *Manager) release(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[conversationID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, conversationID)
	}
}

// WithLock executes fn while holding the conversation's lock.
func (m *Manager) WithLock(ctx context.Context, conversationID string, fn func(context.Context) error) error {
	entry := m.acquire(conversationID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(conversationID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, conversationID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"conversation_id", conversationID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, conversationID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, conversationID)
		return err
	})
	return sess, err
}

// loadOrCreate returns the stored session or a fresh idle one. The caller
// must already hold the conversation's lock.
func (m *Manager) loadOrCreate(ctx context.Context, conversationID string) (*domain.Session, error) {
	sess, err := m.store.Load(ctx, conversationID)
	if err == nil {
		if sess.UserData == nil {
			// Sessions written by other tooling may omit the map.
			sess.UserData = make(map[string]any)
		}
		return sess, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}
	return domain.NewSession(conversationID), nil
}

// Turn runs one turn for the conversation under its lock: the session is
// loaded (or created), handed to fn, and saved back whether or not fn
// succeeded: a failed turn still mutated the session (stack aborts, for
// example) and that outcome must persist.
func (m *Manager) Turn(ctx context.Context, conversationID string, fn func(context.Context, *domain.Session) error) error {
	return m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		sess, err := m.loadOrCreate(ctx, conversationID)
		if err != nil {
			return err
		}

		turnErr := fn(ctx, sess)

		if err := m.store.Save(ctx, conversationID, sess); err != nil {
			if turnErr != nil {
				m.logger.Error("failed to save session after turn error",
					"conversation_id", conversationID, "err", err)
				return turnErr
			}
			return fmt.Errorf("failed to save session: %w", err)
		}
		return turnErr
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, conversationID string) error {
	return m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		return m.store.Delete(ctx, conversationID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
