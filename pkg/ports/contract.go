package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wicker/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract verifies that a SessionStore implementation
// adheres to the interface contract. Adapter tests call it with a fresh
// store instance.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	conversationID := "contract-" + time.Now().Format("20060102150405.000")

	t.Run("Save and Load", func(t *testing.T) {
		sess := domain.NewSession(conversationID)
		sess.UserData["name"] = "Alex"
		sess.Stack = append(sess.Stack, domain.NewFrame("booking"))
		sess.ActiveFrame().Step = 2
		sess.ActiveFrame().Prompt = &domain.PendingPrompt{
			Kind: domain.PromptChoice,
			Text: "I have these times available:",
			Options: []string{"10:30 AM", "11:30 AM"},
		}

		err := store.Save(ctx, conversationID, sess)
		require.NoError(t, err)

		loaded, err := store.Load(ctx, conversationID)
		require.NoError(t, err)
		assert.Equal(t, conversationID, loaded.ConversationID)
		assert.Equal(t, "Alex", loaded.UserData["name"])
		require.Equal(t, 1, loaded.Depth())
		assert.Equal(t, "booking", loaded.ActiveFrame().Dialog)
		assert.Equal(t, 2, loaded.ActiveFrame().Step)
		require.NotNil(t, loaded.ActiveFrame().Prompt)
		assert.Equal(t, domain.PromptChoice, loaded.ActiveFrame().Prompt.Kind)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+conversationID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		// Mutating a loaded session must not leak into the stored snapshot
		// until Save is called again.
		sess := domain.NewSession(conversationID)
		sess.UserData["color"] = "blue"
		require.NoError(t, store.Save(ctx, conversationID, sess))

		first, err := store.Load(ctx, conversationID)
		require.NoError(t, err)
		first.UserData["color"] = "red"

		second, err := store.Load(ctx, conversationID)
		require.NoError(t, err)
		assert.Equal(t, "blue", second.UserData["color"])
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, conversationID, domain.NewSession(conversationID)))
		require.NoError(t, store.Delete(ctx, conversationID))

		_, err := store.Load(ctx, conversationID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		// Deleting again is a no-op, not an error.
		assert.NoError(t, store.Delete(ctx, conversationID))
	})

	t.Run("List", func(t *testing.T) {
		id1 := conversationID + "-1"
		id2 := conversationID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewSession(id1)))
		require.NoError(t, store.Save(ctx, id2, domain.NewSession(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
