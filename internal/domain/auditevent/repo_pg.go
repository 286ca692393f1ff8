package auditevent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditEventRepoPG struct {
	pool *pgxpool.Pool
}

func NewAuditEventRepoPG(pool *pgxpool.Pool) *AuditEventRepoPG {
	return &AuditEventRepoPG{pool: pool}
}

const auditCols = `id, action, actor, entity_kind, entity_id, outcome, detail, recorded_at`

func scanAudit(row pgx.Row) (*AuditEvent, error) {
	var a AuditEvent
	err := row.Scan(
		&a.ID, &a.Action, &a.Actor, &a.EntityKind, &a.EntityID,
		&a.Outcome, &a.Detail, &a.RecordedAt,
	)
	return &a, err
}

func (r *AuditEventRepoPG) Create(ctx context.Context, event *AuditEvent) error {
	q := fmt.Sprintf(`INSERT INTO audit_events (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, auditCols)
	_, err := r.pool.Exec(ctx, q,
		event.ID, event.Action, event.Actor, event.EntityKind, event.EntityID,
		event.Outcome, event.Detail, event.RecordedAt,
	)
	return err
}

func (r *AuditEventRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*AuditEvent, error) {
	q := fmt.Sprintf("SELECT %s FROM audit_events WHERE id = $1", auditCols)
	return scanAudit(r.pool.QueryRow(ctx, q, id))
}

func (r *AuditEventRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*AuditEvent, int, error) {
	where := []string{}
	args := []interface{}{}
	idx := 1

	if v, ok := params["action"]; ok {
		where = append(where, fmt.Sprintf("action = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["actor"]; ok {
		where = append(where, fmt.Sprintf("actor = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["entity-kind"]; ok {
		where = append(where, fmt.Sprintf("entity_kind = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["outcome"]; ok {
		where = append(where, fmt.Sprintf("outcome = $%d", idx))
		args = append(args, v)
		idx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQ := fmt.Sprintf("SELECT COUNT(*) FROM audit_events %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM audit_events %s ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d",
		auditCols, whereClause, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*AuditEvent
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
