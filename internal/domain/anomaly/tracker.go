// Package anomaly decides which prediction records need clinical review and
// tracks which of them the operator has already acknowledged. The dismissal
// set lives in durable operator-local storage and is written through on every
// acknowledgment.
package anomaly

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/respira/respira/internal/domain/record"
	"github.com/respira/respira/internal/platform/kvstore"
)

// RiskThreshold is the risk score above which a record is anomaly-eligible
// even when its trust rating is not low.
const RiskThreshold = 0.8

// StorageKey is the single durable key holding the JSON-encoded dismissal
// set.
const StorageKey = "respira_dismissed_anomalies"

// Eligible reports whether a record warrants clinical review. The two
// signals are independent: a low trust rating flags the record at any risk,
// and a high risk flags it at any rating.
func Eligible(r record.PredictionRecord) bool {
	return r.TrustRating == record.RatingLow || r.RiskScore > RiskThreshold
}

// DismissalSet is the set of record identifiers acknowledged as reviewed.
type DismissalSet map[string]struct{}

// Contains reports membership.
func (s DismissalSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted for stable serialization.
func (s DismissalSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Active returns the eligible records whose ids are not in dismissed,
// preserving the input's relative order.
func Active(records []record.PredictionRecord, dismissed DismissalSet) []record.PredictionRecord {
	active := make([]record.PredictionRecord, 0)
	for _, r := range records {
		if Eligible(r) && !dismissed.Contains(r.ID) {
			active = append(active, r)
		}
	}
	return active
}

// Tracker owns the dismissal set and its persistence. All mutation goes
// through Dismiss, which serializes the whole set back to the store before
// returning.
type Tracker struct {
	store kvstore.Store

	mu        sync.Mutex
	dismissed DismissalSet
}

// NewTracker loads the stored dismissal set. A missing or corrupt stored
// value yields an empty set; initialization never fails.
func NewTracker(store kvstore.Store) *Tracker {
	return &Tracker{store: store, dismissed: loadSet(store)}
}

func loadSet(store kvstore.Store) DismissalSet {
	set := DismissalSet{}
	raw, err := store.Get(StorageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			// Unreadable store degrades to an empty set.
			return set
		}
		return set
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Dismissed returns a copy of the current dismissal set.
func (t *Tracker) Dismissed() DismissalSet {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(DismissalSet, len(t.dismissed))
	for id := range t.dismissed {
		out[id] = struct{}{}
	}
	return out
}

// Dismiss marks id as reviewed and persists the full set before returning.
// Dismissing an already-dismissed id is a no-op. The returned bool reports
// whether the set actually changed, so callers can audit first-time
// acknowledgments only.
func (t *Tracker) Dismiss(id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dismissed.Contains(id) {
		return false, nil
	}

	t.dismissed[id] = struct{}{}
	data, err := json.Marshal(t.dismissed.IDs())
	if err != nil {
		delete(t.dismissed, id)
		return false, fmt.Errorf("encode dismissal set: %w", err)
	}
	if err := t.store.Set(StorageKey, string(data)); err != nil {
		// Keep memory and storage in agreement: a failed write means the
		// dismissal did not happen.
		delete(t.dismissed, id)
		return false, fmt.Errorf("persist dismissal set: %w", err)
	}
	return true, nil
}

// Active filters records against the tracker's current dismissal set.
func (t *Tracker) Active(records []record.PredictionRecord) []record.PredictionRecord {
	return Active(records, t.Dismissed())
}
