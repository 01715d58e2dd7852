package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cspflow/csp-orchestrator/internal/artifact"
	"github.com/cspflow/csp-orchestrator/internal/config"
	"github.com/cspflow/csp-orchestrator/internal/toolclient/stub"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func newEngine(t *testing.T, seed int64) (*Engine, *artifact.Store, string) {
	t.Helper()
	workspace := t.TempDir()
	store := artifact.New(workspace, artifact.WithClock(fixedClock))
	client := stub.New(seed)
	engine, err := New(store, client, WithClock(fixedClock))
	require.NoError(t, err)
	return engine, store, workspace
}

func discoverConfig(seed int64) config.Config {
	cfg := config.Default()
	cfg.Seed = seed
	return cfg
}

func TestDiscoverScenario1WritesFiveCandidatesAndSummary(t *testing.T) {
	engine, store, _ := newEngine(t, 1)
	res, err := engine.Discover(context.Background(), DiscoverRequest{
		Objective: "Discover stable oxide",
		Config:    discoverConfig(1),
	})
	require.NoError(t, err)
	require.Equal(t, "ok", res.Status)
	require.Equal(t, 0, res.Iteration)
	require.NotEmpty(t, res.RunID)
	require.NotEmpty(t, res.ChosenCandidateID)

	ids, err := store.ListCandidateIDs(res.RunID)
	require.NoError(t, err)
	require.Len(t, ids, 5)

	_, err = store.ReadSummary(res.RunID)
	require.NoError(t, err)

	manifest, err := store.ReadManifest(res.RunID)
	require.NoError(t, err)
	require.Equal(t, "ok", string(manifest.Status))
	require.Equal(t, 0, manifest.Iteration)
}

func TestDiscoverScenario2IsDeterministicAcrossFreshWorkspaces(t *testing.T) {
	engine1, _, _ := newEngine(t, 7)
	engine2, _, _ := newEngine(t, 7)

	res1, err := engine1.Discover(context.Background(), DiscoverRequest{Objective: "Determinism test", Config: discoverConfig(7)})
	require.NoError(t, err)
	res2, err := engine2.Discover(context.Background(), DiscoverRequest{Objective: "Determinism test", Config: discoverConfig(7)})
	require.NoError(t, err)

	require.Equal(t, res1.RunID, res2.RunID)
	require.Equal(t, res1.CandidateIDs, res2.CandidateIDs)
	require.Equal(t, res1.SummaryHash, res2.SummaryHash)
	require.Equal(t, res1.ChosenCandidateID, res2.ChosenCandidateID)
}

func TestIterateScenario3AdvancesIterationAndWritesRecord(t *testing.T) {
	engine, store, _ := newEngine(t, 3)
	cfg := discoverConfig(3)
	res, err := engine.Discover(context.Background(), DiscoverRequest{Objective: "Iterate test", Config: cfg})
	require.NoError(t, err)

	iterRes, err := engine.Iterate(context.Background(), IterateRequest{RunID: res.RunID, Config: cfg})
	require.NoError(t, err)
	require.Equal(t, 1, iterRes.Iteration)

	manifest, err := store.ReadManifest(res.RunID)
	require.NoError(t, err)
	require.Equal(t, 1, manifest.Iteration)
}

func TestValidateScenario4ReproducesSameSummaryHash(t *testing.T) {
	engine, _, _ := newEngine(t, 1)
	discoverRes, err := engine.Discover(context.Background(), DiscoverRequest{Objective: "Discover stable oxide", Config: discoverConfig(1)})
	require.NoError(t, err)

	validateRes, err := engine.Validate(context.Background(), ValidateRequest{RunID: discoverRes.RunID, TruthAcceptThreshold: 0.8})
	require.NoError(t, err)
	require.Equal(t, discoverRes.SummaryHash, validateRes.SummaryHash)
}

func TestIterateFailsWhenMaxItersReached(t *testing.T) {
	engine, _, _ := newEngine(t, 5)
	cfg := discoverConfig(5)
	cfg.Policy.MaxIters = 1
	res, err := engine.Discover(context.Background(), DiscoverRequest{Objective: "Max iters", Config: cfg})
	require.NoError(t, err)

	_, err = engine.Iterate(context.Background(), IterateRequest{RunID: res.RunID, Config: cfg})
	require.NoError(t, err)

	_, err = engine.Iterate(context.Background(), IterateRequest{RunID: res.RunID, Config: cfg})
	require.ErrorIs(t, err, ErrMaxItersReached)
}

func TestIterateOnUnknownRunReturnsErrRunNotFound(t *testing.T) {
	engine, _, _ := newEngine(t, 1)
	_, err := engine.Iterate(context.Background(), IterateRequest{RunID: "run-does-not-exist", Config: discoverConfig(1)})
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestExportScenario6WritesTopKInSummaryOrder(t *testing.T) {
	engine, store, _ := newEngine(t, 1)
	discoverRes, err := engine.Discover(context.Background(), DiscoverRequest{Objective: "Discover stable oxide", Config: discoverConfig(1)})
	require.NoError(t, err)

	summary, err := store.ReadSummary(discoverRes.RunID)
	require.NoError(t, err)

	exportRes, err := engine.Export(context.Background(), ExportRequest{RunID: discoverRes.RunID, Format: ExportFormatPOSCAR, TopK: 3})
	require.NoError(t, err)
	require.Len(t, exportRes.Exported, 3)

	want := []string{summary.TopCandidates[0].CandidateID, summary.TopCandidates[1].CandidateID, summary.TopCandidates[2].CandidateID}
	require.Equal(t, want, exportRes.Exported)

	for _, id := range exportRes.Exported {
		content, err := readExport(store, discoverRes.RunID, id, "poscar")
		require.NoError(t, err)
		require.Contains(t, content, "# POSCAR placeholder for "+id)
	}
}

func readExport(store *artifact.Store, runID, candidateID, ext string) (string, error) {
	data, err := os.ReadFile(filepath.Join(store.RunDir(runID), "exports", candidateID+"."+ext))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
