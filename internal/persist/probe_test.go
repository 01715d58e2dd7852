package persist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cspflow/csp-orchestrator/internal/config"
)

func TestProbeDisabledNeverTouchesFilesystem(t *testing.T) {
	probe := NewSQLiteProbe(config.PersistenceConfig{Enabled: false, DSN: "/nonexistent/path/does/not/matter.db"})
	status := probe.Probe(context.Background())
	require.False(t, status.Enabled)
	require.False(t, status.Reachable)
	require.Empty(t, status.Error)
}

func TestProbeEnabledReportsReachability(t *testing.T) {
	path := t.TempDir() + "/probe.db"
	probe := NewSQLiteProbe(config.PersistenceConfig{Enabled: true, DSN: path})
	status := probe.Probe(context.Background())
	require.True(t, status.Enabled)
	require.True(t, status.Reachable)
	require.Empty(t, status.Error)
}
