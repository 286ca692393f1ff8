package history

import (
	"math"
	"testing"

	"github.com/respira/respira/internal/domain/record"
)

func TestProgress_EmptyInput(t *testing.T) {
	s := Progress(nil)
	if s.VisitCount != 0 {
		t.Errorf("VisitCount = %d, want 0", s.VisitCount)
	}
	if len(s.Trend) != 0 {
		t.Errorf("len(Trend) = %d, want 0", len(s.Trend))
	}
}

func TestProgress_AveragesAndImprovement(t *testing.T) {
	records := []record.PredictionRecord{
		// Deliberately out of order: Feb visit first.
		{ID: "r2", CreatedAt: day(2, 1), RiskScore: 0.5, FEV1: 2.0},
		{ID: "r1", CreatedAt: day(1, 1), RiskScore: 0.8, FEV1: 1.8},
		{ID: "r3", CreatedAt: day(3, 1), RiskScore: 0.2, FEV1: 2.6, FlaggedFeatures: []string{"fev1"}},
	}

	s := Progress(records)
	if s.VisitCount != 3 {
		t.Errorf("VisitCount = %d, want 3", s.VisitCount)
	}
	if math.Abs(s.AvgRiskScore-0.5) > 1e-9 {
		t.Errorf("AvgRiskScore = %v, want 0.5", s.AvgRiskScore)
	}
	if math.Abs(s.AvgFEV1-2.1333333333) > 1e-6 {
		t.Errorf("AvgFEV1 = %v, want 2.1333", s.AvgFEV1)
	}
	// First (Jan, 0.8) minus latest (Mar, 0.2) = 60 points of improvement.
	if math.Abs(s.RiskImprovementPct-60) > 1e-9 {
		t.Errorf("RiskImprovementPct = %v, want 60", s.RiskImprovementPct)
	}
	if s.AnomalySessions != 1 {
		t.Errorf("AnomalySessions = %d, want 1", s.AnomalySessions)
	}
}

func TestProgress_TrendChronological(t *testing.T) {
	records := []record.PredictionRecord{
		{ID: "r2", CreatedAt: day(2, 14), RiskScore: 0.351, FEV1: 2.0},
		{ID: "r1", CreatedAt: day(1, 3), RiskScore: 0.9, FEV1: 1.8},
	}

	s := Progress(records)
	if len(s.Trend) != 2 {
		t.Fatalf("len(Trend) = %d, want 2", len(s.Trend))
	}
	if s.Trend[0].Date != "2025-01-03" {
		t.Errorf("Trend[0].Date = %s, want 2025-01-03", s.Trend[0].Date)
	}
	if s.Trend[0].RiskPct != 90 {
		t.Errorf("Trend[0].RiskPct = %d, want 90", s.Trend[0].RiskPct)
	}
	if s.Trend[1].RiskPct != 35 {
		t.Errorf("Trend[1].RiskPct = %d, want 35 (rounded)", s.Trend[1].RiskPct)
	}
}

func TestProgress_WorseningPatientNegativeImprovement(t *testing.T) {
	records := []record.PredictionRecord{
		{ID: "r1", CreatedAt: day(1, 1), RiskScore: 0.2},
		{ID: "r2", CreatedAt: day(2, 1), RiskScore: 0.6},
	}

	s := Progress(records)
	if math.Abs(s.RiskImprovementPct+40) > 1e-9 {
		t.Errorf("RiskImprovementPct = %v, want -40", s.RiskImprovementPct)
	}
}
