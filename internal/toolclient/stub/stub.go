// Package stub implements the deterministic tool client used under
// --dry-run and throughout the test suite: every behavior is driven solely
// by PRNG draws in a fixed order, so a fixed seed and fixed call sequence
// produce byte-identical output across platforms and invocations. Handlers
// are dispatched through a registry of named handlers keyed by tool name.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/cspflow/csp-orchestrator/internal/model"
	"github.com/cspflow/csp-orchestrator/internal/prng"
	"github.com/cspflow/csp-orchestrator/internal/toolclient"
	"github.com/cspflow/csp-orchestrator/internal/validation"
)

// Client is the deterministic, PRNG-keyed tool client.
type Client struct {
	seed     int64
	rng      *prng.PRNG
	registry *toolclient.Registry
}

// New builds a stub Client seeded from seed. suggest_chemistries,
// fetch_priors, and run_qlip draw from one shared stream, in the order the
// workflow engine calls them. batch_validate does not: its noise is forked
// fresh from seed per candidate id (see batchValidate) so that a later,
// out-of-process revalidation call reproduces the same truth scores
// regardless of how many draws the earlier pipeline stages consumed.
func New(seed int64) *Client {
	c := &Client{seed: seed, rng: prng.New(seed)}
	c.registry = toolclient.NewRegistry()
	c.registry.MustRegister(toolclient.ToolSuggestChemistries, c.suggestChemistries)
	c.registry.MustRegister(toolclient.ToolFetchPriors, c.fetchPriors)
	c.registry.MustRegister(toolclient.ToolBuildConstraints, c.buildConstraints)
	c.registry.MustRegister(toolclient.ToolRunQlip, c.runQlip)
	c.registry.MustRegister(toolclient.ToolBatchValidate, c.batchValidate)
	return c
}

// Kind reports this client as the deterministic stub.
func (c *Client) Kind() toolclient.Kind {
	return toolclient.KindStub
}

// PRNG exposes the shared stream that suggest_chemistries, fetch_priors, and
// run_qlip draw from, so callers can observe or predict its position. The
// workflow engine does not use it: run id derivation and chemistry selection
// build their own PRNGs from the seed.
func (c *Client) PRNG() *prng.PRNG {
	return c.rng
}

// Call dispatches to the matching deterministic handler.
func (c *Client) Call(_ context.Context, toolName string, input any) (json.RawMessage, error) {
	handler, err := c.registry.Resolve(toolName)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("toolclient/stub: encode input for %s: %w", toolName, err)
	}
	out, err := handler(raw)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("toolclient/stub: encode output for %s: %w", toolName, err)
	}
	return encoded, nil
}

func (c *Client) suggestChemistries(_ []byte) (any, error) {
	idx := c.rng.NextInt(0, 2)
	return toolclient.SuggestChemistriesOutput{Chemistries: chemistryTables[idx]}, nil
}

func (c *Client) fetchPriors(_ []byte) (any, error) {
	idx := c.rng.NextInt(0, 2)
	return toolclient.FetchPriorsOutput{Priors: priorRows[idx], TableIndex: idx}, nil
}

// buildConstraints stamps the two upstream selections the caller threaded
// through BuildConstraintsInput onto the resulting spec's Notes, so the
// constraints artifact on disk records which fixture rows produced it.
func (c *Client) buildConstraints(raw []byte) (any, error) {
	var in toolclient.BuildConstraintsInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("toolclient/stub: decode build_constraints input: %w", err)
	}
	notes := map[string]string{
		"priors_table_index": strconv.Itoa(in.PriorsTableIndex),
	}
	if in.ChemistryIndex >= 0 {
		notes["chemistry_suggestion_index"] = strconv.Itoa(in.ChemistryIndex)
	}
	return toolclient.BuildConstraintsOutput{
		Constraints: model.ConstraintsSpec{
			ChemSystem: in.ChemSystem,
			Priors:     in.Priors,
			Overrides:  in.Overrides,
			Notes:      notes,
		},
	}, nil
}

func (c *Client) runQlip(_ []byte) (any, error) {
	candidates := make([]model.Candidate, 0, 5)
	for i := 0; i < 5; i++ {
		score := round4(c.rng.NextFloat(0.2, 0.95))
		id := fmt.Sprintf("cand_%04d", i+1)
		content := fmt.Sprintf(
			"data_%s\n_cell_length_a   5.%d0\n_cell_length_b   5.%d0\n_cell_length_c   5.%d0\n_cell_angle_alpha 90.0\n_cell_angle_beta  90.0\n_cell_angle_gamma 90.0\n",
			id, i, i, i,
		)
		candidates = append(candidates, model.Candidate{
			CandidateID: id,
			Score:       score,
			Format:      "cif",
			Content:     content,
		})
	}
	return toolclient.RunQlipOutput{Candidates: candidates}, nil
}

func (c *Client) batchValidate(raw []byte) (any, error) {
	var in toolclient.BatchValidateInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("toolclient/stub: decode batch_validate input: %w", err)
	}
	threshold := in.TruthThreshold
	if threshold == 0 {
		threshold = 0.8
	}

	reports := make([]model.ValidationReport, 0, len(in.Candidates))
	for i, cand := range in.Candidates {
		noise := prng.New(c.seed).Fork("batch_validate").Fork(cand.CandidateID).NextFloat(-0.02, 0.02)
		truth := clamp01(round4(baseScoreAt(i) + noise))

		checks := make([]model.ValidationCheck, 0, len(model.CheckNames))
		for _, name := range model.CheckNames {
			if name == model.CheckParseable {
				checks = append(checks, model.ValidationCheck{Name: name, Passed: true, Severity: model.SeverityInfo})
				continue
			}
			threshold := checkThresholds[name]
			value := truth
			checks = append(checks, model.ValidationCheck{
				Name:     name,
				Passed:   value >= threshold,
				Value:    &value,
				Severity: severityFor(value >= threshold),
			})
		}

		reports = append(reports, model.ValidationReport{
			CandidateID: cand.CandidateID,
			TruthScore:  truth,
			Accept:      truth >= threshold,
			Checks:      checks,
		})
	}

	mirror := validation.Aggregate(reports, threshold)
	return toolclient.BatchValidateOutput{Reports: reports, Summary: &mirror}, nil
}

func severityFor(passed bool) model.Severity {
	if passed {
		return model.SeverityInfo
	}
	return model.SeverityFail
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
