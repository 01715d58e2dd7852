// Package artifact implements the on-disk run-directory contract: a fixed
// layout per run id, typed JSON read/write for each artifact kind, and an
// append-only event log. The Store is a small struct holding a root path and
// an injectable clock, with functional Option constructors and one method
// per artifact kind (manifest, constraints, candidates, reports, summary,
// iterations, exports) backed by a sentinel not-found error, rather than a
// pluggable, open-ended artifact registry.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cspflow/csp-orchestrator/internal/model"
	"github.com/cspflow/csp-orchestrator/internal/policy"
)

// ErrManifestNotFound is returned by ReadManifest when the run does not exist.
var ErrManifestNotFound = errors.New("artifact: run manifest not found")

// Store roots every read/write at <workspace>/runs/<run_id>.
type Store struct {
	workspace string
	now       func() time.Time
}

// Option customizes a Store during construction.
type Option func(*Store)

// WithClock overrides the clock used for event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.now = clock
	}
}

// New builds a Store rooted at workspace.
func New(workspace string, opts ...Option) *Store {
	s := &Store{workspace: workspace, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunDir returns <workspace>/runs/<run_id>.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.workspace, "runs", runID)
}

func (s *Store) manifestPath(runID string) string {
	return filepath.Join(s.RunDir(runID), "run_manifest.json")
}

func (s *Store) constraintsPath(runID string) string {
	return filepath.Join(s.RunDir(runID), "constraints.json")
}

func (s *Store) eventsPath(runID string) string {
	return filepath.Join(s.RunDir(runID), "events.jsonl")
}

func (s *Store) candidatesDir(runID string) string {
	return filepath.Join(s.RunDir(runID), "candidates")
}

func (s *Store) candidatePath(runID, candidateID string) string {
	return filepath.Join(s.candidatesDir(runID), candidateID+".cif")
}

func (s *Store) validationDir(runID string) string {
	return filepath.Join(s.RunDir(runID), "validation")
}

func (s *Store) reportPath(runID, candidateID string) string {
	return filepath.Join(s.validationDir(runID), "report_"+candidateID+".json")
}

func (s *Store) summaryPath(runID string) string {
	return filepath.Join(s.validationDir(runID), "summary.json")
}

func (s *Store) iterationPath(runID string, iteration int) string {
	return filepath.Join(s.RunDir(runID), fmt.Sprintf("iteration_%d.json", iteration))
}

func (s *Store) exportsDir(runID string) string {
	return filepath.Join(s.RunDir(runID), "exports")
}

func (s *Store) exportPath(runID, candidateID, ext string) string {
	return filepath.Join(s.exportsDir(runID), candidateID+"."+ext)
}

// EnsureRunDirs creates the fixed subdirectory tree for a run.
func (s *Store) EnsureRunDirs(runID string) error {
	dirs := []string{
		s.RunDir(runID),
		s.candidatesDir(runID),
		s.validationDir(runID),
		s.exportsDir(runID),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("artifact: ensure dir %s: %w", dir, err)
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: ensure parent dir for %s: %w", path, err)
	}
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: encode %s: %w", path, err)
	}
	return os.WriteFile(path, append(encoded, '\n'), 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("artifact: decode %s: %w", path, err)
	}
	return nil
}

// WriteManifest persists the run manifest, overwriting any prior contents.
func (s *Store) WriteManifest(m model.RunManifest) error {
	return writeJSON(s.manifestPath(m.RunID), m)
}

// ReadManifest loads the run manifest. Returns ErrManifestNotFound if absent.
func (s *Store) ReadManifest(runID string) (model.RunManifest, error) {
	var m model.RunManifest
	if err := readJSON(s.manifestPath(runID), &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.RunManifest{}, ErrManifestNotFound
		}
		return model.RunManifest{}, err
	}
	return m, nil
}

// WriteConstraints persists the constraints spec, overwriting prior contents.
func (s *Store) WriteConstraints(runID string, spec model.ConstraintsSpec) error {
	return writeJSON(s.constraintsPath(runID), spec)
}

// ReadConstraints loads the constraints spec for a run.
func (s *Store) ReadConstraints(runID string) (model.ConstraintsSpec, error) {
	var spec model.ConstraintsSpec
	if err := readJSON(s.constraintsPath(runID), &spec); err != nil {
		return model.ConstraintsSpec{}, err
	}
	return spec, nil
}

// WriteCandidate persists one candidate's CIF content, overwriting a prior
// file with the same candidate id.
func (s *Store) WriteCandidate(runID string, c model.Candidate) error {
	path := s.candidatePath(runID, c.CandidateID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: ensure candidates dir: %w", err)
	}
	return os.WriteFile(path, []byte(c.Content), 0o644)
}

// ListCandidateIDs returns candidate ids present on disk, sorted ascending.
func (s *Store) ListCandidateIDs(runID string) ([]string, error) {
	entries, err := os.ReadDir(s.candidatesDir(runID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("artifact: list candidates: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		ids = append(ids, e.Name()[:len(e.Name())-len(ext)])
	}
	sort.Strings(ids)
	return ids, nil
}

// ReadCandidateContent reads back the raw CIF content for a candidate id.
func (s *Store) ReadCandidateContent(runID, candidateID string) (string, error) {
	data, err := os.ReadFile(s.candidatePath(runID, candidateID))
	if err != nil {
		return "", fmt.Errorf("artifact: read candidate %s: %w", candidateID, err)
	}
	return string(data), nil
}

// WriteReport persists one candidate's validation report.
func (s *Store) WriteReport(runID string, r model.ValidationReport) error {
	return writeJSON(s.reportPath(runID, r.CandidateID), r)
}

// ReadReports loads every report present on disk, ordered by candidate id.
func (s *Store) ReadReports(runID string) ([]model.ValidationReport, error) {
	ids, err := s.ListCandidateIDs(runID)
	if err != nil {
		return nil, err
	}
	reports := make([]model.ValidationReport, 0, len(ids))
	for _, id := range ids {
		var r model.ValidationReport
		if err := readJSON(s.reportPath(runID, id), &r); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// WriteSummary persists the run's validation summary, overwriting prior
// contents.
func (s *Store) WriteSummary(runID string, summary model.ValidationSummary) error {
	return writeJSON(s.summaryPath(runID), summary)
}

// ReadSummary loads the run's validation summary.
func (s *Store) ReadSummary(runID string) (model.ValidationSummary, error) {
	var summary model.ValidationSummary
	if err := readJSON(s.summaryPath(runID), &summary); err != nil {
		return model.ValidationSummary{}, err
	}
	return summary, nil
}

// IterationRecord is the payload written to iteration_<n>.json.
type IterationRecord struct {
	Iteration         int             `json:"iteration"`
	Decision          policy.Decision `json:"decision"`
	SummaryHash       string          `json:"summary_hash"`
	ChosenCandidateID string          `json:"chosen_candidate_id"`
	TruthScore        float64         `json:"truth_score"`
}

// WriteIteration persists iteration_<n>.json.
func (s *Store) WriteIteration(runID string, rec IterationRecord) error {
	return writeJSON(s.iterationPath(runID, rec.Iteration), rec)
}

// WriteExport writes one exported structure file under exports/.
func (s *Store) WriteExport(runID, candidateID, ext, content string) error {
	path := s.exportPath(runID, candidateID, ext)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: ensure exports dir: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Event is one append-only entry in events.jsonl.
type Event struct {
	Event         string    `json:"event"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	RunID         string    `json:"run_id,omitempty"`
	Detail        any       `json:"detail,omitempty"`
}

// AppendEvent appends one JSON-encoded event line to events.jsonl. The
// correlation id is freshly generated here (never drawn from the seeded
// PRNG) so event logging never perturbs determinism.
func (s *Store) AppendEvent(runID, name string, detail any) error {
	path := s.eventsPath(runID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: ensure run dir for events: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("artifact: open events log: %w", err)
	}
	defer f.Close()
	evt := Event{
		Event:         name,
		Timestamp:     s.now().UTC(),
		CorrelationID: uuid.NewString(),
		RunID:         runID,
		Detail:        detail,
	}
	encoded, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("artifact: encode event %s: %w", name, err)
	}
	if _, err := f.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("artifact: append event %s: %w", name, err)
	}
	return nil
}
