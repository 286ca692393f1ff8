package auditevent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service records audit events. Recording is best-effort: a failed write
// is logged and swallowed so it never blocks the action being audited.
type Service struct {
	repo   AuditEventRepository
	logger zerolog.Logger
}

func NewService(repo AuditEventRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record persists an audit event for the given action.
func (s *Service) Record(ctx context.Context, action, actor, entityKind, entityID, outcome, detail string) {
	event := &AuditEvent{
		ID:         uuid.New(),
		Action:     action,
		Actor:      actor,
		EntityKind: entityKind,
		EntityID:   entityID,
		Outcome:    outcome,
		Detail:     detail,
		RecordedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error().Err(err).
			Str("action", action).
			Str("entity_id", entityID).
			Msg("failed to record audit event")
	}
}
