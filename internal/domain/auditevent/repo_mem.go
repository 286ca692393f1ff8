package auditevent

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("audit event not found")

// AuditEventRepoMem keeps audit events in memory. It backs deployments
// without a DATABASE_URL, where the audit trail is best-effort only.
type AuditEventRepoMem struct {
	mu     sync.RWMutex
	events []*AuditEvent
}

func NewAuditEventRepoMem() *AuditEventRepoMem {
	return &AuditEventRepoMem{}
}

func (r *AuditEventRepoMem) Create(_ context.Context, event *AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events = append(r.events, &copied)
	return nil
}

func (r *AuditEventRepoMem) GetByID(_ context.Context, id uuid.UUID) (*AuditEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.events {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *AuditEventRepoMem) Search(_ context.Context, params map[string]string, limit, offset int) ([]*AuditEvent, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*AuditEvent
	for _, e := range r.events {
		if v, ok := params["action"]; ok && e.Action != v {
			continue
		}
		if v, ok := params["actor"]; ok && e.Actor != v {
			continue
		}
		if v, ok := params["entity-kind"]; ok && e.EntityKind != v {
			continue
		}
		if v, ok := params["outcome"]; ok && e.Outcome != v {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RecordedAt.After(matched[j].RecordedAt)
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]*AuditEvent, 0, end-offset)
	for _, e := range matched[offset:end] {
		copied := *e
		page = append(page, &copied)
	}
	return page, total, nil
}
