package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindEntity_FirstOfTypeWins(t *testing.T) {
	entities := []Entity{
		{Type: EntityTypeDate, Value: "Wednesday"},
		{Type: EntityTypeDate, Value: "Friday"},
		{Type: EntityTypeTime, Value: "3pm"},
	}

	ent := FindEntity(entities, EntityTypeDate)
	require.NotNil(t, ent)
	assert.Equal(t, "Wednesday", ent.Value)

	assert.Nil(t, FindEntity(entities, "builtin.number"))
}

func TestResolveTime_PrefersResolutionOverSurfaceText(t *testing.T) {
	entities := []Entity{{
		Type:       EntityTypeTime,
		Value:      "tomorrow at 3pm",
		Resolution: map[string]any{"time": "2026-08-29T15:00:00Z"},
	}}

	resolved, ok := ResolveTime(entities)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC), resolved)
}

func TestResolveTime_TimeEntityBeatsDateEntity(t *testing.T) {
	entities := []Entity{
		{Type: EntityTypeDate, Resolution: map[string]any{"date": "2026-08-29T00:00:00Z"}},
		{Type: EntityTypeTime, Resolution: map[string]any{"time": "2026-08-29T15:00:00Z"}},
	}

	resolved, ok := ResolveTime(entities)
	require.True(t, ok)
	assert.Equal(t, 15, resolved.Hour())
}

func TestResolveTime_FallsBackToSurfaceText(t *testing.T) {
	entities := []Entity{{Type: EntityTypeTime, Value: "15:04"}}

	resolved, ok := ResolveTime(entities)
	require.True(t, ok)
	assert.Equal(t, 15, resolved.Hour())
	assert.Equal(t, 4, resolved.Minute())
}

func TestResolveTime_NothingResolvable(t *testing.T) {
	_, ok := ResolveTime(nil)
	assert.False(t, ok)

	_, ok = ResolveTime([]Entity{{Type: EntityTypeTime, Value: "whenever"}})
	assert.False(t, ok)
}

func TestParseTimeText_AcceptedLayouts(t *testing.T) {
	for _, text := range []string{"15:04", "3:04 PM", "3:04PM", "2026-09-01 15:00", "2026-09-01", "Jan 2 15:04"} {
		_, ok := ParseTimeText(text)
		assert.True(t, ok, "expected %q to parse", text)
	}

	_, ok := ParseTimeText("half past noon")
	assert.False(t, ok)
}
