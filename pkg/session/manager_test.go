package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wicker/pkg/adapters/memory"
	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/ports"
)

func TestManager_TurnCreatesSessionOnFirstUse(t *testing.T) {
	m := NewManager(memory.NewStore())

	err := m.Turn(context.Background(), "c1", func(ctx context.Context, sess *domain.Session) error {
		assert.Equal(t, "c1", sess.ConversationID)
		assert.NotNil(t, sess.UserData)
		assert.Equal(t, 0, sess.Depth())
		sess.UserData["name"] = "Arthur"
		return nil
	})
	require.NoError(t, err)

	sess, err := m.Load(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Arthur", sess.UserData["name"])
}

func TestManager_TurnSavesEvenWhenFnFails(t *testing.T) {
	m := NewManager(memory.NewStore())
	turnErr := errors.New("step exploded")

	err := m.Turn(context.Background(), "c1", func(ctx context.Context, sess *domain.Session) error {
		sess.UserData["mutated"] = true
		return turnErr
	})
	require.ErrorIs(t, err, turnErr)

	// The mutation persisted despite the error.
	sess, err := m.Load(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, true, sess.UserData["mutated"])
}

func TestManager_SerializesTurnsPerConversation(t *testing.T) {
	m := NewManager(memory.NewStore())

	const turns = 50
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Turn(context.Background(), "c1", func(ctx context.Context, sess *domain.Session) error {
				n, _ := sess.UserData["count"].(float64)
				sess.UserData["count"] = n + 1
				return nil
			})
		}()
	}
	wg.Wait()

	sess, err := m.Load(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, float64(turns), sess.UserData["count"])
}

func TestManager_DistinctConversationsRunConcurrently(t *testing.T) {
	m := NewManager(memory.NewStore())

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = m.Turn(context.Background(), "slow", func(ctx context.Context, sess *domain.Session) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	done := make(chan struct{})
	go func() {
		_ = m.Turn(context.Background(), "fast", func(ctx context.Context, sess *domain.Session) error {
			return nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("turn for another conversation blocked behind an unrelated lock")
	}
	close(release)
}

func TestManager_Delete(t *testing.T) {
	m := NewManager(memory.NewStore())
	require.NoError(t, m.Turn(context.Background(), "c1", func(ctx context.Context, sess *domain.Session) error {
		return nil
	}))

	require.NoError(t, m.Delete(context.Background(), "c1"))
	_, err := m.Load(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// countingLocker records lock/unlock pairs.
type countingLocker struct {
	mu      sync.Mutex
	locks   int
	unlocks int
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.locks++
	l.mu.Unlock()
	return func(ctx context.Context) error {
		l.mu.Lock()
		l.unlocks++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_UsesDistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	m := NewManager(memory.NewStore(), WithLocker(locker))

	require.NoError(t, m.Turn(context.Background(), "c1", func(ctx context.Context, sess *domain.Session) error {
		return nil
	}))
	require.NoError(t, m.Turn(context.Background(), "c1", func(ctx context.Context, sess *domain.Session) error {
		return nil
	}))

	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, 2, locker.unlocks)
}
