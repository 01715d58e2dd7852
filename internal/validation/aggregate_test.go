package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cspflow/csp-orchestrator/internal/model"
)

func check(name model.CheckName, passed bool) model.ValidationCheck {
	return model.ValidationCheck{Name: name, Passed: passed}
}

func TestAggregateEmptyInputFillsZeroHistogram(t *testing.T) {
	summary := Aggregate(nil, 0.8)
	require.Equal(t, 0, summary.Total)
	require.Empty(t, summary.BestCandidateID)
	for _, name := range model.CheckNames {
		require.Equal(t, 0, summary.FailureHistogram[string(name)])
	}
}

func TestAggregateCountsAcceptedAndRejectedFromThreshold(t *testing.T) {
	reports := []model.ValidationReport{
		{CandidateID: "cand_0001", TruthScore: 0.9},
		{CandidateID: "cand_0002", TruthScore: 0.5},
	}
	summary := Aggregate(reports, 0.8)
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 1, summary.Accepted)
	require.Equal(t, 1, summary.Rejected)
}

func TestAggregateTopCandidatesSortedByScoreThenID(t *testing.T) {
	reports := []model.ValidationReport{
		{CandidateID: "cand_0003", TruthScore: 0.5},
		{CandidateID: "cand_0001", TruthScore: 0.5},
		{CandidateID: "cand_0002", TruthScore: 0.9},
	}
	summary := Aggregate(reports, 0.8)
	require.Equal(t, []model.TopCandidate{
		{CandidateID: "cand_0002", TruthScore: 0.9},
		{CandidateID: "cand_0001", TruthScore: 0.5},
		{CandidateID: "cand_0003", TruthScore: 0.5},
	}, summary.TopCandidates)
	require.Equal(t, "cand_0002", summary.BestCandidateID)
}

func TestAggregateBestCandidateForSingleReportIsThatReport(t *testing.T) {
	// Aggregate's first-report fallback cannot be reached (top is only ever
	// empty when reports is empty too), so this covers the degenerate
	// single-report path instead.
	reports := []model.ValidationReport{{CandidateID: "cand_0007", TruthScore: 0.1}}
	summary := Aggregate(reports, 0.8)
	require.Equal(t, "cand_0007", summary.BestCandidateID)
}

func TestAggregateFailureHistogramCountsAcrossReportsAndZeroFillsMissing(t *testing.T) {
	reports := []model.ValidationReport{
		{
			CandidateID: "cand_0001",
			TruthScore:  0.9,
			Checks: []model.ValidationCheck{
				check(model.CheckParseable, true),
				check(model.CheckMinDistance, false),
				check(model.CheckDensityInRange, true),
			},
		},
		{
			CandidateID: "cand_0002",
			TruthScore:  0.2,
			Checks: []model.ValidationCheck{
				check(model.CheckMinDistance, false),
				check(model.CheckSymmetryMatch, false),
			},
		},
	}
	summary := Aggregate(reports, 0.8)
	require.Equal(t, 2, summary.FailureHistogram[string(model.CheckMinDistance)])
	require.Equal(t, 1, summary.FailureHistogram[string(model.CheckSymmetryMatch)])
	require.Equal(t, 0, summary.FailureHistogram[string(model.CheckDensityInRange)])
	require.Equal(t, 0, summary.FailureHistogram[string(model.CheckChargeNeutralityFeasible)])
	require.Equal(t, 0, summary.FailureHistogram[string(model.CheckCoordinationReasonable)])
	require.Equal(t, 0, summary.FailureHistogram[string(model.CheckParseable)])
}

func TestAggregateTruthScoresMapKeyedByCandidateID(t *testing.T) {
	reports := []model.ValidationReport{{CandidateID: "cand_0001", TruthScore: 0.77}}
	summary := Aggregate(reports, 0.8)
	require.Equal(t, 0.77, summary.TruthScores["cand_0001"])
}
