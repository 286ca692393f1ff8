package anomaly

import (
	"context"

	"github.com/respira/respira/internal/domain/auditevent"
	"github.com/respira/respira/internal/domain/record"
)

// Source is the slice of the upstream client the anomaly domain reads from.
type Source interface {
	History(ctx context.Context) ([]record.PredictionRecord, int, error)
}

// Recorder receives the audit side-effect of a first-time dismissal.
type Recorder interface {
	Record(ctx context.Context, action, actor, entityKind, entityID, outcome, detail string)
}

type Service struct {
	source  Source
	tracker *Tracker
	audit   Recorder
}

func NewService(source Source, tracker *Tracker, audit Recorder) *Service {
	return &Service{source: source, tracker: tracker, audit: audit}
}

// Active returns the eligible, non-dismissed records in history order.
func (s *Service) Active(ctx context.Context) ([]record.PredictionRecord, error) {
	records, _, err := s.source.History(ctx)
	if err != nil {
		return nil, err
	}
	return s.tracker.Active(records), nil
}

// Dismiss acknowledges a flagged record. Only a first-time dismissal emits
// an audit event; repeats are silent no-ops.
func (s *Service) Dismiss(ctx context.Context, id, actor string) error {
	changed, err := s.tracker.Dismiss(id)
	if err != nil {
		return err
	}
	if changed {
		s.audit.Record(ctx, auditevent.ActionAnomalyDismiss, actor, "prediction_record", id, auditevent.OutcomeSuccess, "")
	}
	return nil
}

// Dismissals returns the current dismissal set, sorted.
func (s *Service) Dismissals() []string {
	return s.tracker.Dismissed().IDs()
}
