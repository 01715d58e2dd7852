package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/cspflow/csp-orchestrator/internal/artifact"
	"github.com/cspflow/csp-orchestrator/internal/canon"
	"github.com/cspflow/csp-orchestrator/internal/config"
	"github.com/cspflow/csp-orchestrator/internal/model"
	"github.com/cspflow/csp-orchestrator/internal/policy"
)

// IterateRequest is the input to Engine.Iterate.
type IterateRequest struct {
	RunID  string
	Config config.Config
}

// IterateResult is the strict-JSON-friendly output of Engine.Iterate.
type IterateResult struct {
	RunID             string          `json:"run_id"`
	Status            string          `json:"status"`
	Iteration         int             `json:"iteration"`
	Decision          policy.Decision `json:"decision"`
	ChosenCandidateID string          `json:"chosen_candidate_id"`
	TruthScore        float64         `json:"truth_score"`
	SummaryHash       string          `json:"summary_hash"`
}

// Iterate applies the deterministic relax/tighten policy and re-runs
// solve/validate for an existing run.
func (e *Engine) Iterate(ctx context.Context, req IterateRequest) (IterateResult, error) {
	manifest, err := e.store.ReadManifest(req.RunID)
	if err != nil {
		if errors.Is(err, artifact.ErrManifestNotFound) {
			return IterateResult{}, fmt.Errorf("%w: %s", ErrRunNotFound, req.RunID)
		}
		return IterateResult{}, fmt.Errorf("workflow: iterate: %w", err)
	}

	next := manifest.Iteration + 1
	if next > manifest.MaxIters {
		return IterateResult{}, fmt.Errorf("%w: run %s is at iteration %d of %d", ErrMaxItersReached, req.RunID, manifest.Iteration, manifest.MaxIters)
	}

	constraints, err := e.store.ReadConstraints(req.RunID)
	if err != nil {
		return IterateResult{}, fmt.Errorf("workflow: iterate: read constraints: %w", err)
	}
	priorSummary, err := e.store.ReadSummary(req.RunID)
	if err != nil {
		return IterateResult{}, fmt.Errorf("workflow: iterate: read summary: %w", err)
	}

	decision := policy.Decide(priorSummary, req.Config.Policy, next)
	mutated := policy.Apply(constraints, decision, next)
	if err := e.store.WriteConstraints(req.RunID, mutated); err != nil {
		return IterateResult{}, fmt.Errorf("workflow: iterate: write constraints: %w", err)
	}

	summary, _, _, err := e.runAndValidate(ctx, req.RunID, mutated, req.Config.Policy.TruthAcceptThreshold)
	if err != nil {
		e.markManifestError(req.RunID, manifest, err)
		return IterateResult{}, err
	}

	summaryHash, err := canon.Hash(summary)
	if err != nil {
		wrapped := fmt.Errorf("workflow: iterate: hash summary: %w", err)
		e.markManifestError(req.RunID, manifest, wrapped)
		return IterateResult{}, wrapped
	}
	truthScore := summary.TruthScores[summary.BestCandidateID]

	if err := e.store.WriteIteration(req.RunID, artifact.IterationRecord{
		Iteration:         next,
		Decision:          decision,
		SummaryHash:       summaryHash,
		ChosenCandidateID: summary.BestCandidateID,
		TruthScore:        truthScore,
	}); err != nil {
		return IterateResult{}, fmt.Errorf("workflow: iterate: write iteration record: %w", err)
	}

	manifest.Iteration = next
	manifest.Status = model.RunStatusOK
	manifest.UpdatedAt = e.now()
	manifest.SelectedCandidateID = summary.BestCandidateID
	manifest.TruthScore = &truthScore
	if err := e.store.WriteManifest(manifest); err != nil {
		return IterateResult{}, fmt.Errorf("workflow: iterate: write manifest: %w", err)
	}

	return IterateResult{
		RunID:             req.RunID,
		Status:            string(model.RunStatusOK),
		Iteration:         next,
		Decision:          decision,
		ChosenCandidateID: summary.BestCandidateID,
		TruthScore:        truthScore,
		SummaryHash:       summaryHash,
	}, nil
}
