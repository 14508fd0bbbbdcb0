package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wicker/pkg/domain"
)

func noop(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
	return domain.Done(nil)
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("greet", noop, noop))

	def, ok := r.Get("greet")
	require.True(t, ok)
	assert.Equal(t, "greet", def.Name)
	assert.Len(t, def.Steps, 2)

	_, ok = r.Get("unknown")
	assert.False(t, ok)
}

func TestRegistry_RejectsEmptyName(t *testing.T) {
	r := New()
	assert.Error(t, r.Register("", noop))
}

func TestRegistry_RejectsNoSteps(t *testing.T) {
	r := New()
	assert.Error(t, r.Register("greet"))
}

func TestRegistry_OverwriteReplacesSteps(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("greet", noop))
	require.NoError(t, r.Register("greet", noop, noop, noop))

	def, ok := r.Get("greet")
	require.True(t, ok)
	assert.Len(t, def.Steps, 3)
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("profile", noop))
	require.NoError(t, r.Register("book-haircut", noop))
	require.NoError(t, r.Register("greet", noop))

	assert.Equal(t, []string{"book-haircut", "greet", "profile"}, r.Names())
}
