package stub

import "github.com/cspflow/csp-orchestrator/internal/model"

// chemistryTables holds the three fixed 3-element suggestion tables that
// suggest_chemistries indexes into with next_int(0, 2). Entries are
// representative oxide/phosphate/sulfide chemistries chosen to exercise a
// spread of lattice symmetries and oxidation-state shapes downstream.
var chemistryTables = [3][]model.ChemistrySuggestion{
	{
		{ChemSystem: "Li-Fe-P-O", Rationale: "olivine-type cathode candidate", Confidence: 0.91},
		{ChemSystem: "Na-Mn-O", Rationale: "layered oxide, known prototype family", Confidence: 0.78},
		{ChemSystem: "Ca-Ti-O", Rationale: "perovskite baseline", Confidence: 0.83},
	},
	{
		{ChemSystem: "Zn-S", Rationale: "wide-gap semiconductor, simple binary", Confidence: 0.88},
		{ChemSystem: "Mg-Al-O", Rationale: "spinel-type structural family", Confidence: 0.8},
		{ChemSystem: "K-Nb-O", Rationale: "ferroelectric perovskite analogue", Confidence: 0.74},
	},
	{
		{ChemSystem: "Si-O", Rationale: "quartz-family polymorph search", Confidence: 0.95},
		{ChemSystem: "Cu-In-Se", Rationale: "chalcopyrite photovoltaic candidate", Confidence: 0.7},
		{ChemSystem: "Ba-Ti-O", Rationale: "classic ferroelectric perovskite", Confidence: 0.86},
	},
}

// priorRows holds the three fixed ChemistryPriors rows that fetch_priors
// indexes into with next_int(0, 2), independent of which chemistry table
// suggest_chemistries drew from.
var priorRows = [3]model.ChemistryPriors{
	{
		LatticePrior: model.LatticePrior{Symmetry: "orthorhombic"},
		DensityRange: [2]float64{2.5, 4.2},
		OxidationStateConstraints: map[string][]int{
			"Li": {1},
			"Fe": {2, 3},
			"P":  {5},
			"O":  {-2},
		},
		Prototypes: []string{"olivine", "spinel"},
	},
	{
		LatticePrior: model.LatticePrior{Symmetry: "cubic"},
		DensityRange: [2]float64{3.0, 5.5},
		OxidationStateConstraints: map[string][]int{
			"Mg": {2},
			"Al": {3},
			"O":  {-2},
		},
		Prototypes: []string{"spinel", "perovskite"},
	},
	{
		LatticePrior: model.LatticePrior{Symmetry: "tetragonal"},
		DensityRange: [2]float64{4.0, 6.8},
		OxidationStateConstraints: map[string][]int{
			"Ba": {2},
			"Ti": {4},
			"O":  {-2},
		},
		Prototypes: []string{"perovskite"},
	},
}

// validationBase is the base truth-score table batch_validate perturbs with
// PRNG noise, extended with 0.4 for any candidate position beyond index 4.
var validationBase = []float64{0.85, 0.72, 0.60, 0.48, 0.35}

func baseScoreAt(i int) float64 {
	if i < len(validationBase) {
		return validationBase[i]
	}
	return 0.4
}

// checkThresholds pairs each fixed check with the truth-score threshold it
// passes at, in the canonical ordering of model.CheckNames. parseable has no
// threshold: it always passes.
var checkThresholds = map[model.CheckName]float64{
	model.CheckMinDistance:              0.40,
	model.CheckDensityInRange:           0.50,
	model.CheckChargeNeutralityFeasible: 0.55,
	model.CheckCoordinationReasonable:   0.65,
	model.CheckSymmetryMatch:            0.70,
}
