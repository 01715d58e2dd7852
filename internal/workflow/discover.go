package workflow

import (
	"context"
	"fmt"

	"github.com/cspflow/csp-orchestrator/internal/canon"
	"github.com/cspflow/csp-orchestrator/internal/config"
	"github.com/cspflow/csp-orchestrator/internal/model"
	"github.com/cspflow/csp-orchestrator/internal/prng"
	"github.com/cspflow/csp-orchestrator/internal/toolclient"
	"github.com/cspflow/csp-orchestrator/internal/validation"
)

// chemistryIndexSalt is the fixed fork salt Discover uses to pick among the
// chemistries a suggest_chemistries call returns, per the workflow's fixed
// PRNG draw order.
const chemistryIndexSalt = 0x3f1c2b

// DiscoverRequest is the input to Engine.Discover.
type DiscoverRequest struct {
	Objective  string
	ChemSystem string
	Config     config.Config
}

// DiscoverResult is the strict-JSON-friendly output of Engine.Discover.
type DiscoverResult struct {
	RunID             string   `json:"run_id"`
	Status            string   `json:"status"`
	RunDir            string   `json:"run_dir"`
	SelectedChemistry string   `json:"selected_chemistry"`
	ChosenCandidateID string   `json:"chosen_candidate_id"`
	TruthScore        float64  `json:"truth_score"`
	CandidateIDs      []string `json:"candidate_ids"`
	SummaryHash       string   `json:"summary_hash"`
	Iteration         int      `json:"iteration"`
}

// Discover runs the full scout -> priors -> constraints -> solve -> validate
// sequence for a fresh run.
func (e *Engine) Discover(ctx context.Context, req DiscoverRequest) (DiscoverResult, error) {
	runID := deriveRunID(req.Config.Seed, req.Objective)

	if err := e.store.EnsureRunDirs(runID); err != nil {
		return DiscoverResult{}, fmt.Errorf("workflow: discover: %w", err)
	}

	now := e.now()
	manifest := model.RunManifest{
		RunID:          runID,
		Status:         model.RunStatusRunning,
		Objective:      req.Objective,
		Seed:           req.Config.Seed,
		CreatedAt:      now,
		UpdatedAt:      now,
		Iteration:      0,
		MaxIters:       req.Config.Policy.MaxIters,
		ConfigSnapshot: snapshotConfig(req.Config),
	}
	if err := e.store.WriteManifest(manifest); err != nil {
		return DiscoverResult{}, fmt.Errorf("workflow: discover: %w", err)
	}
	_ = e.store.AppendEvent(runID, "run_manifest", map[string]any{"seed": req.Config.Seed})
	_ = e.store.AppendEvent(runID, "run_started", map[string]any{"objective": req.Objective})

	chosen, chemIdx, err := e.chooseChemistry(ctx, runID, req)
	if err != nil {
		e.markManifestError(runID, manifest, err)
		return DiscoverResult{}, err
	}

	summary, candidates, _, err := e.solveAndValidate(ctx, runID, chosen.ChemSystem, req.Config, chosen, chemIdx)
	if err != nil {
		e.markManifestError(runID, manifest, err)
		return DiscoverResult{}, err
	}

	summaryHash, err := canon.Hash(summary)
	if err != nil {
		wrapped := fmt.Errorf("workflow: discover: hash summary: %w", err)
		e.markManifestError(runID, manifest, wrapped)
		return DiscoverResult{}, wrapped
	}

	truthScore := summary.TruthScores[summary.BestCandidateID]
	manifest.Status = model.RunStatusOK
	manifest.ChemSystem = chosen.ChemSystem
	manifest.UpdatedAt = e.now()
	manifest.SelectedCandidateID = summary.BestCandidateID
	manifest.TruthScore = &truthScore
	if err := e.store.WriteManifest(manifest); err != nil {
		return DiscoverResult{}, fmt.Errorf("workflow: discover: %w", err)
	}

	candidateIDs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		candidateIDs = append(candidateIDs, c.CandidateID)
	}

	return DiscoverResult{
		RunID:             runID,
		Status:            string(model.RunStatusOK),
		RunDir:            e.store.RunDir(runID),
		SelectedChemistry: chosen.ChemSystem,
		ChosenCandidateID: summary.BestCandidateID,
		TruthScore:        truthScore,
		CandidateIDs:      candidateIDs,
		SummaryHash:       summaryHash,
		Iteration:         0,
	}, nil
}

// deriveRunID derives the run identifier: a one-off PRNG seeded from
// `seed XOR hash(objective)` supplies the 8-hex-digit suffix.
func deriveRunID(seed int64, objective string) string {
	combined := int64(uint32(seed) ^ prng.HashText(objective))
	hex := prng.New(combined).NextHex(8)
	return fmt.Sprintf("run_%d_%s", seed, hex)
}

// chooseChemistry implements Discover step 4: a user-supplied chem_system
// short-circuits the suggest_chemistries call with a synthetic, fully
// confident suggestion (and no suggestion index, reported as -1); otherwise
// the tool is called and an index is picked from a fresh PRNG seeded with the
// config seed and forked with chemistryIndexSalt, so the draw is independent
// of, and does not perturb, the run-id derivation above or the tool client's
// own stream.
func (e *Engine) chooseChemistry(ctx context.Context, runID string, req DiscoverRequest) (model.ChemistrySuggestion, int, error) {
	if req.ChemSystem != "" {
		return model.ChemistrySuggestion{ChemSystem: req.ChemSystem, Rationale: "provided", Confidence: 1.0}, -1, nil
	}

	var out toolclient.SuggestChemistriesOutput
	if err := e.callTool(ctx, runID, toolclient.ToolSuggestChemistries, toolclient.SuggestChemistriesInput{Objective: req.Objective}, &out); err != nil {
		return model.ChemistrySuggestion{}, -1, err
	}
	if len(out.Chemistries) == 0 {
		return model.ChemistrySuggestion{}, -1, fmt.Errorf("workflow: discover: suggest_chemistries returned no suggestions")
	}

	rng := prng.New(req.Config.Seed).Fork(chemistryIndexSalt)
	idx := rng.NextInt(0, len(out.Chemistries)-1)
	return out.Chemistries[idx], idx, nil
}

// solveAndValidate runs fetch_priors -> build_constraints -> run_qlip ->
// batch_validate, persisting every artifact along the way, and returns the
// freshly recomputed summary. Used by Discover; Iterate skips the priors and
// constraints steps and calls runAndValidate directly. chemistryIndex
// is passed straight through to build_constraints so it can stamp the
// chemistry and priors selections onto the resulting spec's Notes.
func (e *Engine) solveAndValidate(
	ctx context.Context,
	runID, chemSystem string,
	cfg config.Config,
	chosen model.ChemistrySuggestion,
	chemistryIndex int,
) (model.ValidationSummary, []model.Candidate, []model.ValidationReport, error) {
	var priorsOut toolclient.FetchPriorsOutput
	if err := e.callTool(ctx, runID, toolclient.ToolFetchPriors, toolclient.FetchPriorsInput{ChemSystem: chosen.ChemSystem}, &priorsOut); err != nil {
		return model.ValidationSummary{}, nil, nil, err
	}

	var constraintsOut toolclient.BuildConstraintsOutput
	buildIn := toolclient.BuildConstraintsInput{
		ChemSystem:       chemSystem,
		Priors:           priorsOut.Priors,
		Overrides:        model.SolverOverrides{},
		ChemistryIndex:   chemistryIndex,
		PriorsTableIndex: priorsOut.TableIndex,
	}
	if err := e.callTool(ctx, runID, toolclient.ToolBuildConstraints, buildIn, &constraintsOut); err != nil {
		return model.ValidationSummary{}, nil, nil, err
	}
	if err := e.store.WriteConstraints(runID, constraintsOut.Constraints); err != nil {
		return model.ValidationSummary{}, nil, nil, fmt.Errorf("workflow: write constraints: %w", err)
	}

	summary, candidates, reports, err := e.runAndValidate(ctx, runID, constraintsOut.Constraints, cfg.Policy.TruthAcceptThreshold)
	return summary, candidates, reports, err
}

// runAndValidate calls run_qlip then batch_validate, persists the resulting
// candidates, reports, and freshly recomputed summary, and returns them.
func (e *Engine) runAndValidate(ctx context.Context, runID string, constraints model.ConstraintsSpec, threshold float64) (model.ValidationSummary, []model.Candidate, []model.ValidationReport, error) {
	var qlipOut toolclient.RunQlipOutput
	if err := e.callTool(ctx, runID, toolclient.ToolRunQlip, toolclient.RunQlipInput{Constraints: constraints}, &qlipOut); err != nil {
		return model.ValidationSummary{}, nil, nil, err
	}
	for _, cand := range qlipOut.Candidates {
		if err := e.store.WriteCandidate(runID, cand); err != nil {
			return model.ValidationSummary{}, nil, nil, fmt.Errorf("workflow: write candidate %s: %w", cand.CandidateID, err)
		}
	}

	var validateOut toolclient.BatchValidateOutput
	validateIn := toolclient.BatchValidateInput{Candidates: qlipOut.Candidates, TruthThreshold: threshold}
	if err := e.callTool(ctx, runID, toolclient.ToolBatchValidate, validateIn, &validateOut); err != nil {
		return model.ValidationSummary{}, nil, nil, err
	}
	for _, report := range validateOut.Reports {
		if err := e.store.WriteReport(runID, report); err != nil {
			return model.ValidationSummary{}, nil, nil, fmt.Errorf("workflow: write report %s: %w", report.CandidateID, err)
		}
	}

	// The stub mirrors a precomputed summary on the output, but per design
	// note the engine recomputes always and never trusts it.
	summary := validation.Aggregate(validateOut.Reports, threshold)
	if err := e.store.WriteSummary(runID, summary); err != nil {
		return model.ValidationSummary{}, nil, nil, fmt.Errorf("workflow: write summary: %w", err)
	}

	return summary, qlipOut.Candidates, validateOut.Reports, nil
}

func (e *Engine) markManifestError(runID string, manifest model.RunManifest, cause error) {
	manifest.Status = model.RunStatusError
	manifest.UpdatedAt = e.now()
	manifest.Error = cause.Error()
	_ = e.store.WriteManifest(manifest)
}
