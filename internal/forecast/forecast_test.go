package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revloop/internal/loop"
	dErrors "revloop/pkg/domain-errors"
)

func TestRevenueInputValidate(t *testing.T) {
	cases := []struct {
		name  string
		input RevenueInput
		ok    bool
	}{
		{"valid", RevenueInput{PipelineValue: 100000, Periods: 6}, true},
		{"zero pipeline", RevenueInput{PipelineValue: 0, Periods: 6}, false},
		{"negative pipeline", RevenueInput{PipelineValue: -1, Periods: 6}, false},
		{"zero periods", RevenueInput{PipelineValue: 100000, Periods: 0}, false},
		{"too many periods", RevenueInput{PipelineValue: 100000, Periods: 25}, false},
		{"max periods", RevenueInput{PipelineValue: 100000, Periods: 24}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
			}
		})
	}
}

func TestRevenueConvergesHalfGapPerPeriod(t *testing.T) {
	summary := &loop.Summary{Current: 28, Target: 27}
	forecast := Revenue(summary, RevenueInput{PipelineValue: 100000, Periods: 3})

	require.Len(t, forecast.Periods, 3)
	// Gap of 1 halves each period: 27.5, 27.25, 27.13 (rounded).
	assert.Equal(t, 27.5, forecast.Periods[0].ProjectedFriction)
	assert.Equal(t, 27.25, forecast.Periods[1].ProjectedFriction)
	assert.Equal(t, 27.13, forecast.Periods[2].ProjectedFriction)

	// Per point: 100000 * 0.012 = 1200. First period recovers half a point.
	assert.Equal(t, 1200.0, forecast.PerPointValue)
	assert.Equal(t, 600.0, forecast.Periods[0].RecoveredRevenue)
	assert.Equal(t, 300.0, forecast.Periods[1].RecoveredRevenue)
	assert.Equal(t, forecast.Periods[2].CumulativeRevenue, forecast.TotalRecovered)
}

func TestRevenueAtTargetProjectsNothing(t *testing.T) {
	summary := &loop.Summary{Current: 27, Target: 27}
	forecast := Revenue(summary, RevenueInput{PipelineValue: 100000, Periods: 4})

	assert.Equal(t, 0.0, forecast.TotalRecovered)
	for _, period := range forecast.Periods {
		assert.Equal(t, 27.0, period.ProjectedFriction)
		assert.Equal(t, 0.0, period.RecoveredRevenue)
	}
}

func TestRevenueBelowTargetClampsGap(t *testing.T) {
	// Overshoot: friction already below target. The gap clamps to zero
	// instead of projecting friction back up.
	summary := &loop.Summary{Current: 25, Target: 27}
	forecast := Revenue(summary, RevenueInput{PipelineValue: 100000, Periods: 2})

	assert.Equal(t, 0.0, forecast.TotalRecovered)
	assert.Equal(t, 25.0, forecast.Periods[1].ProjectedFriction)
}

func TestRevenueCappedAtMaxRecoveryShare(t *testing.T) {
	// A huge gap against a small pipeline: perPoint * reduction would
	// exceed 35% of pipeline, so the cap binds.
	summary := &loop.Summary{Current: 100, Target: 0}
	forecast := Revenue(summary, RevenueInput{PipelineValue: 1000, Periods: 24})

	ceiling := 1000 * maxRecoveryShare
	assert.InDelta(t, ceiling, forecast.TotalRecovered, 0.01)
	for _, period := range forecast.Periods {
		assert.LessOrEqual(t, period.CumulativeRevenue, ceiling+0.01)
	}
}

func TestRiskBandsAndOrdering(t *testing.T) {
	analysis := &loop.Analysis{
		TotalObjections: 10,
		RankedCategories: []loop.CategoryCount{
			{Category: "compliance_concern", Count: 1, Priority: true},
			{Category: "price_resistance", Count: 4, Priority: false},
			{Category: "timing_deferral", Count: 2, Priority: false},
			{Category: "feature_gap", Count: 1, Priority: false},
		},
	}

	riskMap := Risk(analysis, []string{"price_resistance"})
	require.Len(t, riskMap.Cells, 4)

	byCategory := map[string]RiskCell{}
	for _, cell := range riskMap.Cells {
		byCategory[cell.Category] = cell
	}

	// Priority without a patch is critical.
	assert.Equal(t, RiskCritical, byCategory["compliance_concern"].Band)
	// High share (0.40) but patched drops to elevated.
	assert.Equal(t, RiskElevated, byCategory["price_resistance"].Band)
	assert.True(t, byCategory["price_resistance"].Patched)
	// Share 0.20, unpatched: elevated.
	assert.Equal(t, RiskElevated, byCategory["timing_deferral"].Band)
	// Share 0.10, unpatched: elevated boundary.
	assert.Equal(t, RiskElevated, byCategory["feature_gap"].Band)

	assert.Equal(t, 1, riskMap.CriticalCount)
	assert.Equal(t, RiskCritical, riskMap.Cells[0].Band, "critical cells sort first")
}

func TestRiskLowBand(t *testing.T) {
	analysis := &loop.Analysis{
		TotalObjections: 20,
		RankedCategories: []loop.CategoryCount{
			{Category: "feature_gap", Count: 1, Priority: false},
		},
	}

	riskMap := Risk(analysis, nil)
	require.Len(t, riskMap.Cells, 1)
	assert.Equal(t, RiskLow, riskMap.Cells[0].Band)
	assert.Equal(t, 0.05, riskMap.Cells[0].Share)
	assert.Equal(t, 0, riskMap.CriticalCount)
}

func TestRiskEmptyAnalysis(t *testing.T) {
	riskMap := Risk(&loop.Analysis{}, nil)
	assert.Empty(t, riskMap.Cells)
	assert.Equal(t, 0, riskMap.CriticalCount)
}
