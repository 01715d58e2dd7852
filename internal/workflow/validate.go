package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/cspflow/csp-orchestrator/internal/artifact"
	"github.com/cspflow/csp-orchestrator/internal/canon"
	"github.com/cspflow/csp-orchestrator/internal/model"
	"github.com/cspflow/csp-orchestrator/internal/toolclient"
	"github.com/cspflow/csp-orchestrator/internal/validation"
)

// ValidateRequest is the input to Engine.Validate.
type ValidateRequest struct {
	RunID                string
	TruthAcceptThreshold float64
}

// ValidateResult is the strict-JSON-friendly output of Engine.Validate.
type ValidateResult struct {
	RunID           string               `json:"run_id"`
	Status          string               `json:"status"`
	CandidateIDs    []string             `json:"candidate_ids"`
	BestCandidateID string               `json:"best_candidate_id"`
	SummaryHash     string               `json:"summary_hash"`
	TopCandidates   []model.TopCandidate `json:"top_candidates"`
}

// Validate is the out-of-loop revalidation path: it loads whatever
// candidates are already on disk, rebuilds thin Candidate objects, and
// calls batch_validate, writing a fresh summary without touching the
// manifest's iteration count.
func (e *Engine) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	if _, err := e.store.ReadManifest(req.RunID); err != nil {
		if errors.Is(err, artifact.ErrManifestNotFound) {
			return ValidateResult{}, fmt.Errorf("%w: %s", ErrRunNotFound, req.RunID)
		}
		return ValidateResult{}, fmt.Errorf("workflow: validate: %w", err)
	}

	ids, err := e.store.ListCandidateIDs(req.RunID)
	if err != nil {
		return ValidateResult{}, fmt.Errorf("workflow: validate: list candidates: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(ids))
	for _, id := range ids {
		content, err := e.store.ReadCandidateContent(req.RunID, id)
		if err != nil {
			return ValidateResult{}, fmt.Errorf("workflow: validate: read candidate %s: %w", id, err)
		}
		candidates = append(candidates, model.Candidate{CandidateID: id, Format: "cif", Content: content})
	}

	var out toolclient.BatchValidateOutput
	in := toolclient.BatchValidateInput{Candidates: candidates, TruthThreshold: req.TruthAcceptThreshold}
	if err := e.callTool(ctx, req.RunID, toolclient.ToolBatchValidate, in, &out); err != nil {
		return ValidateResult{}, err
	}
	for _, report := range out.Reports {
		if err := e.store.WriteReport(req.RunID, report); err != nil {
			return ValidateResult{}, fmt.Errorf("workflow: validate: write report %s: %w", report.CandidateID, err)
		}
	}

	summary := validation.Aggregate(out.Reports, req.TruthAcceptThreshold)
	if err := e.store.WriteSummary(req.RunID, summary); err != nil {
		return ValidateResult{}, fmt.Errorf("workflow: validate: write summary: %w", err)
	}

	summaryHash, err := canon.Hash(summary)
	if err != nil {
		return ValidateResult{}, fmt.Errorf("workflow: validate: hash summary: %w", err)
	}

	return ValidateResult{
		RunID:           req.RunID,
		Status:          string(model.RunStatusOK),
		CandidateIDs:    ids,
		BestCandidateID: summary.BestCandidateID,
		SummaryHash:     summaryHash,
		TopCandidates:   summary.TopCandidates,
	}, nil
}
