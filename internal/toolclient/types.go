package toolclient

import "github.com/cspflow/csp-orchestrator/internal/model"

// Request/response shapes for each of the five known tools. The workflow
// engine builds the *Input value, marshals it through Call, and Decodes the
// raw result into the matching *Output value; real and stub implementations
// agree on exactly this wire shape.

type SuggestChemistriesInput struct {
	Objective string `json:"objective"`
}

type SuggestChemistriesOutput struct {
	Chemistries []model.ChemistrySuggestion `json:"chemistries"`
}

type FetchPriorsInput struct {
	ChemSystem string `json:"chem_system"`
}

type FetchPriorsOutput struct {
	Priors model.ChemistryPriors `json:"priors"`
	// TableIndex names which fixed priors row produced Priors. The stub
	// client fills this in from its own fixture table; it exists so
	// build_constraints can record provenance without either side
	// inventing a new artifact.
	TableIndex int `json:"table_index"`
}

type BuildConstraintsInput struct {
	ChemSystem string                `json:"chem_system"`
	Priors     model.ChemistryPriors `json:"priors"`
	Overrides  model.SolverOverrides `json:"overrides"`
	// ChemistryIndex is the index Discover picked among
	// suggest_chemistries' results, or -1 when the caller supplied
	// chem_system directly and no suggestion list was ever fetched.
	ChemistryIndex int `json:"chemistry_index"`
	// PriorsTableIndex is FetchPriorsOutput.TableIndex, carried forward so
	// build_constraints can stamp both selections onto Notes in one place.
	PriorsTableIndex int `json:"priors_table_index"`
}

type BuildConstraintsOutput struct {
	Constraints model.ConstraintsSpec `json:"constraints"`
}

type RunQlipInput struct {
	Constraints model.ConstraintsSpec `json:"constraints"`
}

type RunQlipOutput struct {
	Candidates []model.Candidate `json:"candidates"`
}

type BatchValidateInput struct {
	Candidates     []model.Candidate `json:"candidates"`
	TruthThreshold float64           `json:"truth_threshold"`
}

type BatchValidateOutput struct {
	Reports []model.ValidationReport `json:"reports"`
	Summary *model.ValidationSummary `json:"summary,omitempty"`
}
