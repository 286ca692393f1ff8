package anomaly

import (
	"context"
	"testing"

	"github.com/respira/respira/internal/domain/record"
	"github.com/respira/respira/internal/platform/kvstore"
)

type fakeSource struct {
	records []record.PredictionRecord
	err     error
}

func (f *fakeSource) History(context.Context) ([]record.PredictionRecord, int, error) {
	return f.records, 0, f.err
}

type captureRecorder struct {
	calls []string
}

func (c *captureRecorder) Record(_ context.Context, action, actor, entityKind, entityID, outcome, detail string) {
	c.calls = append(c.calls, action+":"+entityID)
}

func flaggedRecords() []record.PredictionRecord {
	return []record.PredictionRecord{
		{ID: "a", RiskScore: 0.9, TrustRating: record.RatingHigh},
		{ID: "b", RiskScore: 0.2, TrustRating: record.RatingLow},
		{ID: "c", RiskScore: 0.5, TrustRating: record.RatingHigh},
	}
}

func newTestService(t *testing.T, records []record.PredictionRecord) (*Service, *captureRecorder) {
	t.Helper()
	audit := &captureRecorder{}
	tracker := NewTracker(kvstore.NewMemStore())
	return NewService(&fakeSource{records: records}, tracker, audit), audit
}

func TestService_Active_ExcludesIneligible(t *testing.T) {
	svc, _ := newTestService(t, flaggedRecords())

	active, err := svc.Active(context.Background())
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("len(active) = %d, want 2", len(active))
	}
	if active[0].ID != "a" || active[1].ID != "b" {
		t.Errorf("active order = [%s %s], want [a b]", active[0].ID, active[1].ID)
	}
}

func TestService_Dismiss_AuditsFirstTimeOnly(t *testing.T) {
	svc, audit := newTestService(t, flaggedRecords())
	ctx := context.Background()

	if err := svc.Dismiss(ctx, "a", "dr.house"); err != nil {
		t.Fatalf("Dismiss() error = %v", err)
	}
	if err := svc.Dismiss(ctx, "a", "dr.house"); err != nil {
		t.Fatalf("repeat Dismiss() error = %v", err)
	}

	if len(audit.calls) != 1 {
		t.Fatalf("audit calls = %d, want 1", len(audit.calls))
	}
	if audit.calls[0] != "anomaly.dismiss:a" {
		t.Errorf("audit call = %q, want anomaly.dismiss:a", audit.calls[0])
	}
}

func TestService_Dismiss_RemovesFromActive(t *testing.T) {
	svc, _ := newTestService(t, flaggedRecords())
	ctx := context.Background()

	if err := svc.Dismiss(ctx, "a", "anonymous"); err != nil {
		t.Fatalf("Dismiss() error = %v", err)
	}

	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if len(active) != 1 || active[0].ID != "b" {
		t.Errorf("active after dismiss = %v, want just b", active)
	}
}

func TestService_Dismissals_Sorted(t *testing.T) {
	svc, _ := newTestService(t, flaggedRecords())
	ctx := context.Background()

	_ = svc.Dismiss(ctx, "b", "anonymous")
	_ = svc.Dismiss(ctx, "a", "anonymous")

	got := svc.Dismissals()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Dismissals() = %v, want [a b]", got)
	}
}
