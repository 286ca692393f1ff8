package history

import (
	"testing"
	"time"

	"github.com/respira/respira/internal/domain/record"
)

func recordFields(r record.PredictionRecord) []string {
	return []string{r.PatientName, r.ID}
}

func TestFilter_BlankQueryIsIdentity(t *testing.T) {
	records := []record.PredictionRecord{
		{ID: "a", PatientName: "John Doe"},
		{ID: "b", PatientName: "Jane Roe"},
	}

	for _, q := range []string{"", "   ", "\t"} {
		got := Filter(records, q, recordFields)
		if len(got) != len(records) {
			t.Errorf("Filter(%q) len = %d, want %d", q, len(got), len(records))
		}
	}
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	records := []record.PredictionRecord{
		{ID: "a", PatientName: "John Doe"},
		{ID: "b", PatientName: "Mary Major"},
	}

	got := Filter(records, "JO", recordFields)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (John + maJOr)", len(got))
	}

	got = Filter(records, "doe", recordFields)
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Filter(doe) = %v, want record a", got)
	}
}

func TestFilter_MatchesAnyField(t *testing.T) {
	records := []record.PredictionRecord{
		{ID: "abc-123", PatientName: "John"},
	}

	if got := Filter(records, "abc", recordFields); len(got) != 1 {
		t.Errorf("id match len = %d, want 1", len(got))
	}
	if got := Filter(records, "zzz", recordFields); len(got) != 0 {
		t.Errorf("no-match len = %d, want 0", len(got))
	}
}

func TestFilter_OverGroups(t *testing.T) {
	groups := Group([]record.PredictionRecord{
		{ID: "r1", PatientID: "p1", PatientName: "John Doe", CreatedAt: time.Now()},
		{ID: "r2", PatientID: "p2", PatientName: "Jane Roe", CreatedAt: time.Now()},
	})

	got := Filter(groups, "jane", func(g PatientGroup) []string {
		return []string{g.DisplayName, g.GroupID}
	})
	if len(got) != 1 || got[0].GroupID != "p2" {
		t.Errorf("Filter over groups = %v, want p2 only", got)
	}
}
