package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cspflow/csp-orchestrator/internal/model"
	"github.com/cspflow/csp-orchestrator/internal/policy"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestReadManifestNotFound(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.ReadManifest("run-does-not-exist")
	require.ErrorIs(t, err, ErrManifestNotFound)
}

func TestWriteReadManifestRoundTrip(t *testing.T) {
	s := New(t.TempDir(), WithClock(fixedClock))
	m := model.RunManifest{RunID: "run-1", Status: model.RunStatusRunning, Seed: 7, MaxIters: 5}
	require.NoError(t, s.EnsureRunDirs(m.RunID))
	require.NoError(t, s.WriteManifest(m))

	got, err := s.ReadManifest("run-1")
	require.NoError(t, err)
	require.Equal(t, m.RunID, got.RunID)
	require.Equal(t, m.Status, got.Status)
	require.Equal(t, m.Seed, got.Seed)
}

func TestWriteReadConstraintsRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	spec := model.ConstraintsSpec{
		ChemSystem: "Li-Fe-P-O",
		Priors:     model.ChemistryPriors{DensityRange: [2]float64{2, 4}},
	}
	require.NoError(t, s.EnsureRunDirs("run-1"))
	require.NoError(t, s.WriteConstraints("run-1", spec))

	got, err := s.ReadConstraints("run-1")
	require.NoError(t, err)
	require.Equal(t, spec.ChemSystem, got.ChemSystem)
	require.Equal(t, spec.Priors.DensityRange, got.Priors.DensityRange)
}

func TestCandidatesRoundTripAndListIsSorted(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.EnsureRunDirs("run-1"))

	for _, id := range []string{"cand_0002", "cand_0001", "cand_0003"} {
		require.NoError(t, s.WriteCandidate("run-1", model.Candidate{CandidateID: id, Content: "data-" + id}))
	}

	ids, err := s.ListCandidateIDs("run-1")
	require.NoError(t, err)
	require.Equal(t, []string{"cand_0001", "cand_0002", "cand_0003"}, ids)

	content, err := s.ReadCandidateContent("run-1", "cand_0002")
	require.NoError(t, err)
	require.Equal(t, "data-cand_0002", content)
}

func TestListCandidateIDsOnMissingRunIsEmptyNotError(t *testing.T) {
	s := New(t.TempDir())
	ids, err := s.ListCandidateIDs("never-created")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestReportsAndSummaryRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.EnsureRunDirs("run-1"))
	require.NoError(t, s.WriteCandidate("run-1", model.Candidate{CandidateID: "cand_0001"}))
	require.NoError(t, s.WriteCandidate("run-1", model.Candidate{CandidateID: "cand_0002"}))

	require.NoError(t, s.WriteReport("run-1", model.ValidationReport{CandidateID: "cand_0001", TruthScore: 0.9, Accept: true}))
	require.NoError(t, s.WriteReport("run-1", model.ValidationReport{CandidateID: "cand_0002", TruthScore: 0.4, Accept: false}))

	reports, err := s.ReadReports("run-1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, "cand_0001", reports[0].CandidateID)

	summary := model.ValidationSummary{Total: 2, Accepted: 1, Rejected: 1, BestCandidateID: "cand_0001"}
	require.NoError(t, s.WriteSummary("run-1", summary))
	got, err := s.ReadSummary("run-1")
	require.NoError(t, err)
	require.Equal(t, summary.BestCandidateID, got.BestCandidateID)
}

func TestWriteIterationUsesDecisionShape(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.EnsureRunDirs("run-1"))
	rec := IterationRecord{
		Iteration:         2,
		Decision:          policy.Decision{Mode: policy.ModeTighten, Action: policy.ActionNarrowDensity},
		SummaryHash:       "deadbeef",
		ChosenCandidateID: "cand_0001",
		TruthScore:        0.9,
	}
	require.NoError(t, s.WriteIteration("run-1", rec))

	path := filepath.Join(s.RunDir("run-1"), "iteration_2.json")
	require.FileExists(t, path)
}

func TestWriteExportCreatesExportsDir(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.EnsureRunDirs("run-1"))
	require.NoError(t, s.WriteExport("run-1", "cand_0001", "cif", "data_block"))
	require.FileExists(t, filepath.Join(s.RunDir("run-1"), "exports", "cand_0001.cif"))
}

func TestAppendEventIsAppendOnlyJSONL(t *testing.T) {
	s := New(t.TempDir(), WithClock(fixedClock))
	require.NoError(t, s.EnsureRunDirs("run-1"))
	require.NoError(t, s.AppendEvent("run-1", "run.started", map[string]any{"seed": 1}))
	require.NoError(t, s.AppendEvent("run-1", "run.finished", nil))

	path := filepath.Join(s.RunDir("run-1"), "events.jsonl")
	require.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"event":"run.started"`)
	require.Contains(t, lines[1], `"event":"run.finished"`)
}
