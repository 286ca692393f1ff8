// Package history derives the longitudinal views of the dashboard: the
// per-patient grouping of the flat record stream, search over either shape,
// and the progress statistics behind the patient trend chart.
package history

import (
	"sort"
	"time"

	"github.com/respira/respira/internal/domain/record"
)

// PatientGroup is the derived longitudinal rollup for one grouping identity.
// It is recomputed from the record set on every change, never mutated
// incrementally.
type PatientGroup struct {
	GroupID         string                    `json:"group_id"`
	DisplayName     string                    `json:"display_name"`
	Linked          bool                      `json:"linked"`
	Records         []record.PredictionRecord `json:"records"`
	VisitCount      int                       `json:"visit_count"`
	LastVisitAt     time.Time                 `json:"last_visit_at"`
	LatestRiskScore float64                   `json:"latest_risk_score"`
}

// Group buckets records by patient identity and computes per-group stats in
// a single left-to-right scan. The grouping key is the patient id when
// present, else the record id, so every record lands in exactly one group.
// DisplayName keeps the first-seen patient name for the group; LastVisitAt
// and LatestRiskScore follow the scan's running max of CreatedAt, so an
// exact timestamp tie keeps the earlier-scanned record's score. Groups come
// back sorted by LastVisitAt descending, ties in input order.
func Group(records []record.PredictionRecord) []PatientGroup {
	groups := make([]PatientGroup, 0)
	index := make(map[string]int, len(records))

	for _, r := range records {
		key := r.Identity().Key
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, PatientGroup{
				GroupID:         key,
				DisplayName:     r.PatientName,
				Linked:          r.Identity().Kind == record.IdentityLinked,
				Records:         []record.PredictionRecord{r},
				VisitCount:      1,
				LastVisitAt:     r.CreatedAt,
				LatestRiskScore: r.RiskScore,
			})
			continue
		}

		g := &groups[i]
		g.Records = append(g.Records, r)
		g.VisitCount++
		if r.CreatedAt.After(g.LastVisitAt) {
			g.LastVisitAt = r.CreatedAt
			g.LatestRiskScore = r.RiskScore
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].LastVisitAt.After(groups[b].LastVisitAt)
	})
	return groups
}
