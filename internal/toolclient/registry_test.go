package toolclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryResolveDispatchesToRegisteredHandler(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("tool.a", func(input []byte) (any, error) { return string(input), nil })

	h, err := r.Resolve("tool.a")
	require.NoError(t, err)
	out, err := h([]byte("x"))
	require.NoError(t, err)
	require.Equal(t, "x", out)
}

func TestRegistryResolveUnknownToolReturnsErrUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("tool.missing")
	require.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistryRegisterRejectsDuplicateToolName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("tool.a", func(input []byte) (any, error) { return nil, nil }))
	err := r.Register("tool.a", func(input []byte) (any, error) { return nil, nil })
	require.Error(t, err)
}

func TestRegistryIDsListsRegisteredToolsSortedAscending(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("tool.c", func(input []byte) (any, error) { return nil, nil })
	r.MustRegister("tool.a", func(input []byte) (any, error) { return nil, nil })
	r.MustRegister("tool.b", func(input []byte) (any, error) { return nil, nil })

	require.Equal(t, []string{"tool.a", "tool.b", "tool.c"}, r.IDs())
}
