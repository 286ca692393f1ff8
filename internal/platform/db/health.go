package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Audit store kinds reported by Check.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// PoolStats summarizes the connection pool for the health payload.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

// Health describes the audit store backing the service: which kind it is,
// whether it is reachable, and pool statistics when Postgres is configured.
type Health struct {
	Store   string     `json:"store"`
	Healthy bool       `json:"healthy"`
	Pool    *PoolStats `json:"pool,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Check reports audit-store health. A nil pool means the in-memory store,
// which is always healthy. With a pool, the database is pinged with a short
// timeout and the pool counters are attached.
func Check(ctx context.Context, pool *pgxpool.Pool) Health {
	if pool == nil {
		return Health{Store: StoreMemory, Healthy: true}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stat := pool.Stat()
	h := Health{
		Store: StorePostgres,
		Pool: &PoolStats{
			TotalConns:    stat.TotalConns(),
			IdleConns:     stat.IdleConns(),
			AcquiredConns: stat.AcquiredConns(),
			MaxConns:      stat.MaxConns(),
		},
	}

	if err := pool.Ping(ctx); err != nil {
		h.Error = err.Error()
		return h
	}
	h.Healthy = true
	return h
}
