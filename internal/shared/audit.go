package shared

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLogger records admin mutations on catalogue entities.
type AuditLogger struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewAuditLogger constructs an AuditLogger backed by postgres.
func NewAuditLogger(pool *pgxpool.Pool, logger *slog.Logger) *AuditLogger {
	return &AuditLogger{pool: pool, logger: logger}
}

// Record inserts an audit row. Failures are logged, never propagated: an
// audit miss must not roll back the mutation it describes.
func (a *AuditLogger) Record(ctx context.Context, actorID int64, entity string, entityID int64, action string) {
	if a == nil || a.pool == nil {
		return
	}
	const query = `INSERT INTO audit_log (actor_id, entity, entity_id, action, created_at) VALUES ($1, $2, $3, $4, now())`
	if _, err := a.pool.Exec(ctx, query, actorID, entity, entityID, action); err != nil {
		if a.logger != nil {
			a.logger.Warn("audit record", slog.String("entity", entity), slog.Any("error", err))
		}
	}
}
