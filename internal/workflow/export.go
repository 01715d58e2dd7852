package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/cspflow/csp-orchestrator/internal/artifact"
)

// ExportFormat enumerates the two export formats.
type ExportFormat string

const (
	ExportFormatCIF    ExportFormat = "cif"
	ExportFormatPOSCAR ExportFormat = "poscar"
)

// ExportRequest is the input to Engine.Export.
type ExportRequest struct {
	RunID  string
	Format ExportFormat
	TopK   int
}

// ExportResult is the strict-JSON-friendly output of Engine.Export.
type ExportResult struct {
	RunID    string   `json:"run_id"`
	Status   string   `json:"status"`
	Format   string   `json:"format"`
	Exported []string `json:"exported"`
}

// Export writes the top-K candidates' structure files under exports/,
// ordered by the run's prior summary's top_candidates, falling back to disk
// order (ascending candidate id) when no summary is present.
func (e *Engine) Export(_ context.Context, req ExportRequest) (ExportResult, error) {
	if _, err := e.store.ReadManifest(req.RunID); err != nil {
		if errors.Is(err, artifact.ErrManifestNotFound) {
			return ExportResult{}, fmt.Errorf("%w: %s", ErrRunNotFound, req.RunID)
		}
		return ExportResult{}, fmt.Errorf("workflow: export: %w", err)
	}

	format := req.Format
	if format == "" {
		format = ExportFormatCIF
	}

	ids, err := e.orderedExportIDs(req.RunID)
	if err != nil {
		return ExportResult{}, err
	}

	topK := req.TopK
	if topK <= 0 || topK > len(ids) {
		topK = len(ids)
	}
	ids = ids[:topK]

	exported := make([]string, 0, len(ids))
	for _, id := range ids {
		content, err := e.store.ReadCandidateContent(req.RunID, id)
		if err != nil {
			return ExportResult{}, fmt.Errorf("workflow: export: read candidate %s: %w", id, err)
		}
		if format == ExportFormatPOSCAR {
			content = fmt.Sprintf("# POSCAR placeholder for %s\n%s", id, content)
		}
		if err := e.store.WriteExport(req.RunID, id, string(format), content); err != nil {
			return ExportResult{}, fmt.Errorf("workflow: export: write %s: %w", id, err)
		}
		exported = append(exported, id)
	}

	return ExportResult{
		RunID:    req.RunID,
		Status:   "ok",
		Format:   string(format),
		Exported: exported,
	}, nil
}

// orderedExportIDs prefers the run's prior summary's top_candidates order,
// falling back to ascending disk order when no summary exists yet.
func (e *Engine) orderedExportIDs(runID string) ([]string, error) {
	summary, err := e.store.ReadSummary(runID)
	if err == nil && len(summary.TopCandidates) > 0 {
		ids := make([]string, 0, len(summary.TopCandidates))
		for _, tc := range summary.TopCandidates {
			ids = append(ids, tc.CandidateID)
		}
		return ids, nil
	}

	ids, listErr := e.store.ListCandidateIDs(runID)
	if listErr != nil {
		return nil, fmt.Errorf("workflow: export: list candidates: %w", listErr)
	}
	return ids, nil
}
