// Package validation implements the verification aggregator: reducing a
// batch of per-candidate ValidationReports into the single ValidationSummary
// that the iteration policy consumes. Aggregate is a pure function, grounded
// on the same "pure reduction over a slice, no I/O" shape as
// internal/policy.Decide — callers own reading reports from the artifact
// store and writing the resulting summary back.
package validation

import (
	"sort"

	"github.com/cspflow/csp-orchestrator/internal/model"
)

// Aggregate reduces reports into a ValidationSummary using threshold only to
// recompute accept/reject counts; each report's own Accept field (set by the
// tool client) is never trusted for the aggregate counts, since the input
// could in principle come from a non-conforming client.
func Aggregate(reports []model.ValidationReport, threshold float64) model.ValidationSummary {
	summary := model.ValidationSummary{
		TruthScores:      make(map[string]float64, len(reports)),
		FailureHistogram: make(map[string]int, len(model.CheckNames)),
	}
	for _, name := range model.CheckNames {
		summary.FailureHistogram[string(name)] = 0
	}

	for _, r := range reports {
		summary.Total++
		accept := r.TruthScore >= threshold
		if accept {
			summary.Accepted++
		} else {
			summary.Rejected++
		}
		summary.TruthScores[r.CandidateID] = r.TruthScore
		for _, check := range r.Checks {
			if !check.Passed {
				summary.FailureHistogram[string(check.Name)]++
			}
		}
	}

	top := make([]model.TopCandidate, 0, len(reports))
	for _, r := range reports {
		top = append(top, model.TopCandidate{CandidateID: r.CandidateID, TruthScore: r.TruthScore})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TruthScore != top[j].TruthScore {
			return top[i].TruthScore > top[j].TruthScore
		}
		return top[i].CandidateID < top[j].CandidateID
	})
	summary.TopCandidates = top

	switch {
	case len(top) > 0:
		summary.BestCandidateID = top[0].CandidateID
	case len(reports) > 0:
		summary.BestCandidateID = reports[0].CandidateID
	}

	return summary
}
