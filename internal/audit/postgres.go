package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed attempt store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the attempts table when it is missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS checkin_attempts (
			id UUID PRIMARY KEY,
			session_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS checkin_attempts_session_idx ON checkin_attempts (session_id, created_at);
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}
	return nil
}

// Record inserts an attempt.
func (r *PostgresRepository) Record(ctx context.Context, attempt Attempt) error {
	if err := attempt.validate(); err != nil {
		return err
	}
	id, err := uuid.Parse(attempt.ID)
	if err != nil {
		return fmt.Errorf("parse attempt id: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO checkin_attempts (id, session_id, mode, outcome, reason, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, id, attempt.SessionID, attempt.Mode, attempt.Outcome, attempt.Reason, attempt.CreatedAt.UTC())
	return err
}

// ListBySession returns a session's attempts, oldest first.
func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string) ([]Attempt, error) {
	rows, err := r.db.Query(ctx, `SELECT id, session_id, mode, outcome, reason, created_at
        FROM checkin_attempts WHERE session_id = $1 ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a  Attempt
			id uuid.UUID
		)
		if err := rows.Scan(&id, &a.SessionID, &a.Mode, &a.Outcome, &a.Reason, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.ID = id.String()
		out = append(out, a)
	}
	return out, rows.Err()
}
