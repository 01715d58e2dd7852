// Package policy implements the deterministic relax/tighten decision
// procedure that drives the feedback loop: a pure function from a
// validation summary and the resolved policy config to a {mode, action}
// decision, plus a pure mutation that applies that decision to a
// ConstraintsSpec. Nothing here consumes the PRNG or touches the
// filesystem — both Decide and Apply are referentially transparent so
// property tests can exercise them directly.
package policy

import (
	"github.com/cspflow/csp-orchestrator/internal/config"
	"github.com/cspflow/csp-orchestrator/internal/model"
)

// Mode is the coarse direction of a policy decision.
type Mode string

const (
	ModeRelax   Mode = "relax"
	ModeTighten Mode = "tighten"
)

// Decision is the output of Decide: a direction and a concrete action.
type Decision struct {
	Mode   Mode   `json:"mode"`
	Action string `json:"action"`
}

const (
	ActionWidenLattice             = "widen_lattice"
	ActionNarrowDensity            = "narrow_density"
	ActionIncreaseMaxAtoms         = "increase_max_atoms"
	ActionIncreaseMinDistanceScale = "increase_min_distance_scale"
	ActionExpandPrototypes         = "expand_prototypes"
	ActionRestrictPrototypes       = "restrict_prototypes"
)

// defaultRelaxAction and defaultTightenAction are used when the
// configured order list is empty.
const (
	defaultRelaxAction   = ActionWidenLattice
	defaultTightenAction = ActionIncreaseMinDistanceScale
)

// Decide computes the relax/tighten decision for the given summary and
// iteration number (the iteration the decision is being made *for*, i.e.
// the upcoming iteration count used to index into the action order).
func Decide(summary model.ValidationSummary, cfg config.PolicyConfig, iteration int) Decision {
	hist := summary.FailureHistogram
	r := hist[string(model.CheckDensityInRange)] + hist[string(model.CheckChargeNeutralityFeasible)] + hist[string(model.CheckSymmetryMatch)]
	t := hist[string(model.CheckMinDistance)] + hist[string(model.CheckCoordinationReasonable)]

	if r >= t {
		return Decision{Mode: ModeRelax, Action: pickAction(cfg.RelaxOrder, iteration, defaultRelaxAction)}
	}
	return Decision{Mode: ModeTighten, Action: pickAction(cfg.TightenOrder, iteration, defaultTightenAction)}
}

func pickAction(order []string, iteration int, fallback string) string {
	if len(order) == 0 {
		return fallback
	}
	idx := iteration % len(order)
	if idx < 0 {
		idx += len(order)
	}
	return order[idx]
}

// Apply mutates a ConstraintsSpec according to decision, appending an
// Adjustment entry, and returns the new spec. The input spec is never
// mutated in place.
func Apply(spec model.ConstraintsSpec, decision Decision, iteration int) model.ConstraintsSpec {
	next := spec.Clone()
	next.Adjustments = append(next.Adjustments, model.Adjustment{
		Iteration: iteration,
		Mode:      string(decision.Mode),
		Action:    decision.Action,
	})

	switch decision.Action {
	case ActionWidenLattice:
		lo, hi := next.Priors.DensityRange[0], next.Priors.DensityRange[1]
		newLo := lo * 0.9
		if newLo < 0.1 {
			newLo = 0.1
		}
		next.Priors.DensityRange = [2]float64{newLo, hi * 1.1}
	case ActionNarrowDensity:
		lo, hi := next.Priors.DensityRange[0], next.Priors.DensityRange[1]
		newHi := lo * 1.1
		if hi*0.95 > newHi {
			newHi = hi * 0.95
		}
		next.Priors.DensityRange = [2]float64{lo * 1.05, newHi}
	case ActionIncreaseMaxAtoms:
		if existing, ok := numeric(next.Overrides["max_atoms"]); ok {
			next.Overrides["max_atoms"] = existing + 5
		} else {
			next.Overrides = ensureOverrides(next.Overrides)
			next.Overrides["max_atoms"] = 150
		}
	case ActionIncreaseMinDistanceScale:
		if existing, ok := numeric(next.Overrides["min_distance_scale"]); ok {
			next.Overrides["min_distance_scale"] = existing + 0.05
		} else {
			next.Overrides = ensureOverrides(next.Overrides)
			next.Overrides["min_distance_scale"] = 1.05
		}
	case ActionExpandPrototypes:
		next.Priors.Prototypes = append(next.Priors.Prototypes, "proto_extra")
	case ActionRestrictPrototypes:
		if len(next.Priors.Prototypes) > 1 {
			next.Priors.Prototypes = next.Priors.Prototypes[:len(next.Priors.Prototypes)-1]
		}
	}
	return next
}

func ensureOverrides(o model.SolverOverrides) model.SolverOverrides {
	if o != nil {
		return o
	}
	return model.SolverOverrides{}
}

// numeric extracts a float64 from whatever numeric type a tool client may
// have round-tripped through JSON (float64, int, json.Number-compatible).
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
