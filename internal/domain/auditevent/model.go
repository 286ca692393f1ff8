package auditevent

import (
	"time"

	"github.com/google/uuid"
)

// Recognized audit actions.
const (
	ActionAnomalyDismiss   = "anomaly.dismiss"
	ActionPredictionCreate = "prediction.create"
)

// Outcome codes, following the success/failure split of FHIR AuditEvent.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditEvent records who did what to which entity, and when.
type AuditEvent struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Action     string    `db:"action" json:"action"`
	Actor      string    `db:"actor" json:"actor"`
	EntityKind string    `db:"entity_kind" json:"entity_kind"`
	EntityID   string    `db:"entity_id" json:"entity_id"`
	Outcome    string    `db:"outcome" json:"outcome"`
	Detail     string    `db:"detail" json:"detail,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
