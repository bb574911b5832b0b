package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// The service owns a single table, so bootstrap is one idempotent
// statement rather than versioned migrations.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS todos (
	id           BIGSERIAL PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT,
	due_date     DATE,
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the todos table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return err
	}
	logger.Info("todos schema ensured")
	return nil
}
