package store

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/chartview/internal/typeid"
)

func TestMemoryVersions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first, err := m.Save(ctx, "chart_a", 100, 50, json.RawMessage(`{"series":[]}`))
	require.NoError(t, err)
	assert.Equal(t, int32(1), first.Version)
	assert.True(t, strings.HasPrefix(first.ID, typeid.PrefixSnapshot+"_"))
	require.NoError(t, typeid.Validate(first.ID, typeid.PrefixSnapshot))

	second, err := m.Save(ctx, "chart_a", 200, 80, json.RawMessage(`{"width":200}`))
	require.NoError(t, err)
	assert.Equal(t, int32(2), second.Version)

	latest, err := m.Latest(ctx, "chart_a")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 200.0, latest.Width)
	assert.JSONEq(t, `{"width":200}`, string(latest.Option))
}

func TestMemoryCopiesOption(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	option := []byte(`{"a":1}`)
	_, err := m.Save(ctx, "chart_a", 1, 1, option)
	require.NoError(t, err)
	option[2] = 'b'

	latest, err := m.Latest(ctx, "chart_a")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(latest.Option))
}

func TestMemoryChartsAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, id := range []string{"chart_b", "chart_a", "chart_b"} {
		_, err := m.Save(ctx, id, 1, 1, json.RawMessage(`{}`))
		require.NoError(t, err)
	}

	ids, err := m.Charts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"chart_a", "chart_b"}, ids)

	require.NoError(t, m.Delete(ctx, "chart_b"))
	_, err = m.Latest(ctx, "chart_b")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "chart_b"), ErrNotFound)
}
