package canon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalSortsKeysAtEveryDepth(t *testing.T) {
	v := map[string]any{
		"b": 1,
		"a": map[string]any{"z": 1, "y": 2},
	}
	got, err := Marshal(v)
	require.NoError(t, err)
	require.Equal(t, `{"a":{"y":2,"z":1},"b":1}`, string(got))
}

func TestMarshalPreservesArrayOrder(t *testing.T) {
	v := []any{3, 1, 2}
	got, err := Marshal(v)
	require.NoError(t, err)
	require.Equal(t, `[3,1,2]`, string(got))
}

func TestHashIsStable(t *testing.T) {
	v := map[string]any{"a": 1, "b": 2}
	h1, err := Hash(v)
	require.NoError(t, err)
	h2, err := Hash(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64)
}

func TestCanonicalIsIdempotent(t *testing.T) {
	v := map[string]any{"nested": []any{map[string]any{"b": 2, "a": 1}}}
	first, err := Marshal(v)
	require.NoError(t, err)
	parsed, err := Parse(first)
	require.NoError(t, err)
	second, err := Marshal(parsed)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}
