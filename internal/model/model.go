// Package model defines the data shapes exchanged between the workflow
// engine, the tool client, and the on-disk artifact store. Nothing in this
// package touches the filesystem or the network; it is the vocabulary the
// rest of the orchestrator is written in.
package model

import "time"

// ChemistrySuggestion is one candidate chemistry system proposed by
// materials-data-mcp.suggest_chemistries.
type ChemistrySuggestion struct {
	ChemSystem string  `json:"chem_system"`
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"`
}

// ChemistryPriors bounds the search space for a chosen chemistry.
type ChemistryPriors struct {
	LatticePrior              LatticePrior     `json:"lattice_prior"`
	DensityRange              [2]float64       `json:"density_range"`
	OxidationStateConstraints map[string][]int `json:"oxidation_state_constraints"`
	Prototypes                []string         `json:"prototypes"`
}

// LatticePrior captures the expected crystal symmetry class.
type LatticePrior struct {
	Symmetry string `json:"symmetry"`
}

// SolverOverrides holds solver tuning knobs keyed by name. Values are
// whatever the tool client returned (numbers, strings, bools).
type SolverOverrides map[string]any

// Adjustment records one policy decision applied to a ConstraintsSpec.
type Adjustment struct {
	Iteration int    `json:"iteration"`
	Mode      string `json:"mode"`
	Action    string `json:"action"`
}

// ConstraintsSpec is the compiled input to the MILP solver.
type ConstraintsSpec struct {
	ChemSystem  string            `json:"chem_system"`
	Priors      ChemistryPriors   `json:"priors"`
	Overrides   SolverOverrides   `json:"overrides"`
	Adjustments []Adjustment      `json:"adjustments"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// Clone returns a deep-enough copy so callers can mutate the result without
// aliasing the receiver's slices/maps.
func (c ConstraintsSpec) Clone() ConstraintsSpec {
	clone := c
	if c.Priors.Prototypes != nil {
		clone.Priors.Prototypes = append([]string{}, c.Priors.Prototypes...)
	}
	if c.Priors.OxidationStateConstraints != nil {
		clone.Priors.OxidationStateConstraints = make(map[string][]int, len(c.Priors.OxidationStateConstraints))
		for k, v := range c.Priors.OxidationStateConstraints {
			clone.Priors.OxidationStateConstraints[k] = append([]int{}, v...)
		}
	}
	if c.Overrides != nil {
		clone.Overrides = make(SolverOverrides, len(c.Overrides))
		for k, v := range c.Overrides {
			clone.Overrides[k] = v
		}
	}
	if c.Adjustments != nil {
		clone.Adjustments = append([]Adjustment{}, c.Adjustments...)
	}
	if c.Notes != nil {
		clone.Notes = make(map[string]string, len(c.Notes))
		for k, v := range c.Notes {
			clone.Notes[k] = v
		}
	}
	return clone
}

// Candidate is one structure produced by qlip-mcp.run_qlip.
type Candidate struct {
	CandidateID string  `json:"candidate_id"`
	Score       float64 `json:"score"`
	Format      string  `json:"format"`
	Content     string  `json:"content"`
}

// CheckName enumerates the fixed set of validation checks.
type CheckName string

const (
	CheckParseable                CheckName = "parseable"
	CheckMinDistance              CheckName = "min_distance"
	CheckDensityInRange           CheckName = "density_in_range"
	CheckChargeNeutralityFeasible CheckName = "charge_neutrality_feasible"
	CheckCoordinationReasonable   CheckName = "coordination_reasonable"
	CheckSymmetryMatch            CheckName = "symmetry_match"
)

// CheckNames lists all six checks in their canonical, fixed order.
var CheckNames = []CheckName{
	CheckParseable,
	CheckMinDistance,
	CheckDensityInRange,
	CheckChargeNeutralityFeasible,
	CheckCoordinationReasonable,
	CheckSymmetryMatch,
}

// Severity classifies how serious a failed check is.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
)

// ValidationCheck is one named pass/fail evaluation on a candidate.
type ValidationCheck struct {
	Name     CheckName `json:"name"`
	Passed   bool      `json:"passed"`
	Value    *float64  `json:"value,omitempty"`
	Message  string    `json:"message,omitempty"`
	Severity Severity  `json:"severity,omitempty"`
}

// ValidationReport is the per-candidate output of csp-validators-mcp.batch_validate.
type ValidationReport struct {
	CandidateID string            `json:"candidate_id"`
	TruthScore  float64           `json:"truth_score"`
	Accept      bool              `json:"accept"`
	Checks      []ValidationCheck `json:"checks"`
}

// TopCandidate is one entry of ValidationSummary.TopCandidates.
type TopCandidate struct {
	CandidateID string  `json:"candidate_id"`
	TruthScore  float64 `json:"truth_score"`
}

// ValidationSummary reduces a batch of reports into the input to the policy.
//
// Only the fields below may ever be hashed (see internal/canon); no
// timestamp or path is permitted to enter this struct.
type ValidationSummary struct {
	Total            int                `json:"total"`
	Accepted         int                `json:"accepted"`
	Rejected         int                `json:"rejected"`
	BestCandidateID  string             `json:"best_candidate_id"`
	TruthScores      map[string]float64 `json:"truth_scores"`
	FailureHistogram map[string]int     `json:"failure_histogram"`
	TopCandidates    []TopCandidate     `json:"top_candidates"`
}

// RunStatus enumerates the lifecycle states of a RunManifest.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusOK      RunStatus = "ok"
	RunStatusError   RunStatus = "error"
)

// RunManifest is the per-run control record. It is never hashed and must
// never be included in any canonicalized/hashed artifact.
type RunManifest struct {
	RunID               string         `json:"run_id"`
	Status              RunStatus      `json:"status"`
	Objective           string         `json:"objective"`
	ChemSystem          string         `json:"chem_system,omitempty"`
	Seed                int64          `json:"seed"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	Iteration           int            `json:"iteration"`
	MaxIters            int            `json:"max_iters"`
	SelectedCandidateID string         `json:"selected_candidate_id,omitempty"`
	TruthScore          *float64       `json:"truth_score,omitempty"`
	ConfigSnapshot      map[string]any `json:"config_snapshot"`
	Error               string         `json:"error,omitempty"`
}
