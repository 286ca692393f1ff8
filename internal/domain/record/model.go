// Package record defines the typed prediction-record schema shared by the
// analytics domains. Records are owned by the remote prediction backend;
// this package validates them once at the system boundary so that nothing
// partially typed reaches the aggregation, anomaly, or trust layers.
package record

import (
	"fmt"
	"time"
)

// Rating is the backend-supplied qualitative confidence label for a
// prediction. It is displayed alongside the interval-derived confidence,
// never mixed with it.
type Rating string

const (
	RatingHigh   Rating = "high"
	RatingMedium Rating = "medium"
	RatingLow    Rating = "low"
)

// NormalizeRating maps a raw label to a known Rating. Unknown labels fall
// back to medium: the rating is a display string, and a record must not be
// rejected because the backend introduced a new label.
func NormalizeRating(raw string) Rating {
	switch Rating(raw) {
	case RatingHigh, RatingMedium, RatingLow:
		return Rating(raw)
	default:
		return RatingMedium
	}
}

// PredictionRecord is one completed risk assessment. Immutable once parsed.
type PredictionRecord struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patient_id,omitempty"`
	PatientName     string    `json:"patient_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Age             int       `json:"age"`
	FEV1            float64   `json:"fev1"`
	RiskScore       float64   `json:"risk_score"`
	TrustRating     Rating    `json:"trust_rating"`
	FlaggedFeatures []string  `json:"flagged_features,omitempty"`
}

// Identity resolves the longitudinal grouping key for the record. A record
// without a stable patient identifier forms its own singleton group keyed by
// the record id; two unlinked visits by the same person are never merged.
func (r *PredictionRecord) Identity() Identity {
	if r.PatientID != "" {
		return Identity{Kind: IdentityLinked, Key: r.PatientID}
	}
	return Identity{Kind: IdentityUnlinked, Key: r.ID}
}

// IdentityKind tags how a record was tied to a patient.
type IdentityKind int

const (
	// IdentityLinked means the backend supplied a stable patient identifier.
	IdentityLinked IdentityKind = iota
	// IdentityUnlinked means the record id stands in for a missing patient
	// identifier.
	IdentityUnlinked
)

// Identity is the resolved grouping identity of a record.
type Identity struct {
	Kind IdentityKind
	Key  string
}

// RawRecord is the loosely-typed wire form delivered by the prediction
// backend.
type RawRecord struct {
	ID              string   `json:"id"`
	PatientID       string   `json:"patient_id"`
	PatientName     string   `json:"patient_name"`
	CreatedAt       string   `json:"created_at"`
	Age             int      `json:"age"`
	FEV1            float64  `json:"fev1"`
	RiskScore       float64  `json:"risk_score"`
	TrustRating     string   `json:"trust_rating"`
	FlaggedFeatures []string `json:"flagged_features"`
}

// ValidationError describes why a raw record was rejected at the boundary.
type ValidationError struct {
	RecordID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %q: field %s: %s", e.RecordID, e.Field, e.Reason)
}

// timeLayouts covers the timestamp formats the backend has been observed to
// emit (RFC 3339 with and without fractional seconds or zone).
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Parse validates a RawRecord into a PredictionRecord. Numeric fields outside
// their documented domain are clamped rather than rejected; only a missing id
// or an unreadable timestamp makes the record unusable.
func Parse(raw RawRecord) (PredictionRecord, error) {
	if raw.ID == "" {
		return PredictionRecord{}, &ValidationError{Field: "id", Reason: "missing"}
	}

	createdAt, ok := parseTimestamp(raw.CreatedAt)
	if !ok {
		return PredictionRecord{}, &ValidationError{
			RecordID: raw.ID,
			Field:    "created_at",
			Reason:   fmt.Sprintf("unparsable timestamp %q", raw.CreatedAt),
		}
	}

	risk := raw.RiskScore
	if risk < 0 {
		risk = 0
	}
	if risk > 1 {
		risk = 1
	}

	fev1 := raw.FEV1
	if fev1 < 0 {
		fev1 = 0
	}

	age := raw.Age
	if age < 0 {
		age = 0
	}

	return PredictionRecord{
		ID:              raw.ID,
		PatientID:       raw.PatientID,
		PatientName:     raw.PatientName,
		CreatedAt:       createdAt,
		Age:             age,
		FEV1:            fev1,
		RiskScore:       risk,
		TrustRating:     NormalizeRating(raw.TrustRating),
		FlaggedFeatures: raw.FlaggedFeatures,
	}, nil
}

// ParseAll validates a batch, keeping valid records in order and collecting
// the rejects. The caller logs the rejects; a bad row never poisons the view.
func ParseAll(raws []RawRecord) ([]PredictionRecord, []error) {
	records := make([]PredictionRecord, 0, len(raws))
	var errs []error
	for _, raw := range raws {
		rec, err := Parse(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}
