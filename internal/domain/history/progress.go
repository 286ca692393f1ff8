package history

import (
	"math"
	"sort"

	"github.com/respira/respira/internal/domain/record"
)

// TrendPoint is one chart sample on the risk trajectory.
type TrendPoint struct {
	Date    string  `json:"date"`
	RiskPct int     `json:"risk_pct"`
	FEV1    float64 `json:"fev1"`
}

// ProgressSummary aggregates a patient's visit history for the progress
// header cards.
type ProgressSummary struct {
	VisitCount         int          `json:"visit_count"`
	AvgRiskScore       float64      `json:"avg_risk_score"`
	AvgFEV1            float64      `json:"avg_fev1"`
	RiskImprovementPct float64      `json:"risk_improvement_pct"`
	AnomalySessions    int          `json:"anomaly_sessions"`
	Trend              []TrendPoint `json:"trend"`
}

// Progress computes the longitudinal summary for one patient's records. The
// trend is sorted chronologically; improvement is first-visit risk minus
// latest risk in percentage points (positive means the patient improved).
// Empty input yields a zero summary.
func Progress(records []record.PredictionRecord) ProgressSummary {
	if len(records) == 0 {
		return ProgressSummary{Trend: []TrendPoint{}}
	}

	sorted := make([]record.PredictionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.Before(sorted[b].CreatedAt)
	})

	var riskSum, fev1Sum float64
	anomalySessions := 0
	trend := make([]TrendPoint, 0, len(sorted))
	for _, r := range sorted {
		riskSum += r.RiskScore
		fev1Sum += r.FEV1
		if len(r.FlaggedFeatures) > 0 {
			anomalySessions++
		}
		trend = append(trend, TrendPoint{
			Date:    r.CreatedAt.Format("2006-01-02"),
			RiskPct: int(math.Round(r.RiskScore * 100)),
			FEV1:    r.FEV1,
		})
	}

	n := float64(len(sorted))
	first := sorted[0]
	latest := sorted[len(sorted)-1]

	return ProgressSummary{
		VisitCount:         len(sorted),
		AvgRiskScore:       riskSum / n,
		AvgFEV1:            fev1Sum / n,
		RiskImprovementPct: (first.RiskScore - latest.RiskScore) * 100,
		AnomalySessions:    anomalySessions,
		Trend:              trend,
	}
}
