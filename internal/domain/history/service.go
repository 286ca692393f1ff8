package history

import (
	"context"
	"errors"

	"github.com/respira/respira/internal/domain/record"
	"github.com/respira/respira/internal/platform/upstream"
)

var ErrGroupNotFound = errors.New("patient group not found")

// Source is the slice of the upstream client the history domain reads from.
type Source interface {
	History(ctx context.Context) ([]record.PredictionRecord, int, error)
	Stats(ctx context.Context) (upstream.Stats, error)
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Records returns the flat prediction history, optionally search-filtered,
// along with the count of upstream rows dropped at the schema boundary.
func (s *Service) Records(ctx context.Context, query string) ([]record.PredictionRecord, int, error) {
	records, dropped, err := s.source.History(ctx)
	if err != nil {
		return nil, 0, err
	}
	filtered := Filter(records, query, func(r record.PredictionRecord) []string {
		return []string{r.PatientName, r.PatientID, r.ID}
	})
	return filtered, dropped, nil
}

// Patients returns the aggregated per-patient index, optionally filtered.
func (s *Service) Patients(ctx context.Context, query string) ([]PatientGroup, error) {
	records, _, err := s.source.History(ctx)
	if err != nil {
		return nil, err
	}
	groups := Group(records)
	return Filter(groups, query, func(g PatientGroup) []string {
		return []string{g.DisplayName, g.GroupID}
	}), nil
}

// PatientProgress returns the longitudinal view for one patient group.
func (s *Service) PatientProgress(ctx context.Context, groupID string) (PatientGroup, ProgressSummary, error) {
	records, _, err := s.source.History(ctx)
	if err != nil {
		return PatientGroup{}, ProgressSummary{}, err
	}
	for _, g := range Group(records) {
		if g.GroupID == groupID {
			return g, Progress(g.Records), nil
		}
	}
	return PatientGroup{}, ProgressSummary{}, ErrGroupNotFound
}

// Stats passes through the upstream overview stats.
func (s *Service) Stats(ctx context.Context) (upstream.Stats, error) {
	return s.source.Stats(ctx)
}
