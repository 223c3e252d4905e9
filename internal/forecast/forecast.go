// Package forecast produces deterministic revenue and risk projections from
// loop outcomes. Everything here is a pure function of its inputs so the
// numbers are reproducible across briefs and audits.
package forecast

import (
	"math"
	"sort"

	"revloop/internal/loop"
	dErrors "revloop/pkg/domain-errors"
)

// Friction-to-revenue model constants. One friction point costs this share of
// pipeline per period; patches recover conversion proportionally to measured
// delta.
const (
	revenuePerFrictionPoint = 0.012
	maxRecoveryShare        = 0.35
)

// RevenueInput parameterizes a revenue projection.
type RevenueInput struct {
	PipelineValue float64 `json:"pipeline_value"`
	Periods       int     `json:"periods"`
}

func (r RevenueInput) Validate() error {
	if r.PipelineValue <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "pipeline_value must be positive")
	}
	if r.Periods <= 0 || r.Periods > 24 {
		return dErrors.New(dErrors.CodeInvalidInput, "periods must be between 1 and 24")
	}
	return nil
}

// PeriodProjection is one row of the revenue forecast.
type PeriodProjection struct {
	Period            int     `json:"period"`
	ProjectedFriction float64 `json:"projected_friction"`
	RecoveredRevenue  float64 `json:"recovered_revenue"`
	CumulativeRevenue float64 `json:"cumulative_revenue"`
}

// RevenueForecast projects revenue recovery as friction converges on target.
type RevenueForecast struct {
	PipelineValue   float64            `json:"pipeline_value"`
	CurrentFriction float64            `json:"current_friction"`
	TargetFriction  float64            `json:"target_friction"`
	PerPointValue   float64            `json:"per_point_value"`
	Periods         []PeriodProjection `json:"periods"`
	TotalRecovered  float64            `json:"total_recovered"`
}

// Revenue projects recovery over the requested periods. Friction converges
// geometrically toward the target; the recovered value per period is the
// friction reduction times the per-point pipeline cost, capped at the maximum
// recovery share.
func Revenue(summary *loop.Summary, input RevenueInput) *RevenueForecast {
	perPoint := input.PipelineValue * revenuePerFrictionPoint
	forecast := &RevenueForecast{
		PipelineValue:   input.PipelineValue,
		CurrentFriction: summary.Current,
		TargetFriction:  summary.Target,
		PerPointValue:   round2(perPoint),
		Periods:         make([]PeriodProjection, 0, input.Periods),
	}

	recoveryCap := input.PipelineValue * maxRecoveryShare
	friction := summary.Current
	cumulative := 0.0
	for period := 1; period <= input.Periods; period++ {
		gap := friction - summary.Target
		if gap < 0 {
			gap = 0
		}
		// Each period closes half the remaining gap.
		reduction := gap / 2
		friction -= reduction

		recovered := reduction * perPoint
		if cumulative+recovered > recoveryCap {
			recovered = recoveryCap - cumulative
			if recovered < 0 {
				recovered = 0
			}
		}
		cumulative += recovered

		forecast.Periods = append(forecast.Periods, PeriodProjection{
			Period:            period,
			ProjectedFriction: round2(friction),
			RecoveredRevenue:  round2(recovered),
			CumulativeRevenue: round2(cumulative),
		})
	}
	forecast.TotalRecovered = round2(cumulative)
	return forecast
}

// RiskBand labels a category's revenue exposure.
type RiskBand string

const (
	RiskLow      RiskBand = "low"
	RiskElevated RiskBand = "elevated"
	RiskCritical RiskBand = "critical"
)

// RiskCell is one category row of the risk map.
type RiskCell struct {
	Category   string   `json:"category"`
	Objections int      `json:"objections"`
	Share      float64  `json:"share"`
	Priority   bool     `json:"priority"`
	Patched    bool     `json:"patched"`
	Band       RiskBand `json:"band"`
}

// RiskMap grades each observed objection category by share and patch status.
type RiskMap struct {
	TotalObjections int        `json:"total_objections"`
	Cells           []RiskCell `json:"cells"`
	CriticalCount   int        `json:"critical_count"`
}

// Risk builds the category risk map from an analysis and the applied-patch
// list. A priority or high-share category without an applied patch is
// critical; a patched one drops a band.
func Risk(analysis *loop.Analysis, appliedPatches []string) *RiskMap {
	patched := make(map[string]bool, len(appliedPatches))
	for _, category := range appliedPatches {
		patched[category] = true
	}

	riskMap := &RiskMap{
		TotalObjections: analysis.TotalObjections,
		Cells:           make([]RiskCell, 0, len(analysis.RankedCategories)),
	}
	for _, cc := range analysis.RankedCategories {
		share := 0.0
		if analysis.TotalObjections > 0 {
			share = float64(cc.Count) / float64(analysis.TotalObjections)
		}
		cell := RiskCell{
			Category:   cc.Category,
			Objections: cc.Count,
			Share:      round2(share),
			Priority:   cc.Priority,
			Patched:    patched[cc.Category],
			Band:       band(cc.Priority, share, patched[cc.Category]),
		}
		if cell.Band == RiskCritical {
			riskMap.CriticalCount++
		}
		riskMap.Cells = append(riskMap.Cells, cell)
	}

	sort.SliceStable(riskMap.Cells, func(i, j int) bool {
		return bandRank(riskMap.Cells[i].Band) > bandRank(riskMap.Cells[j].Band)
	})
	return riskMap
}

func band(priority bool, share float64, patched bool) RiskBand {
	exposed := priority || share >= 0.25
	switch {
	case exposed && !patched:
		return RiskCritical
	case exposed || (share >= 0.10 && !patched):
		return RiskElevated
	default:
		return RiskLow
	}
}

func bandRank(b RiskBand) int {
	switch b {
	case RiskCritical:
		return 3
	case RiskElevated:
		return 2
	default:
		return 1
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
