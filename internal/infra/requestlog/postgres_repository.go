package requestlog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/lawn-advisor/internal/domain/recommendation"
)

// Schema creates the table used by PostgresRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS recommendation_requests (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL DEFAULT '',
	status      INTEGER NOT NULL,
	kind        TEXT NOT NULL DEFAULT '',
	model       TEXT NOT NULL DEFAULT '',
	cached      BOOLEAN NOT NULL DEFAULT FALSE,
	latency_ms  BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

// PostgresRepository implements recommendation.OutcomeLog using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the backing table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, Schema)
	return err
}

// Record inserts a single outcome row.
func (r *PostgresRepository) Record(ctx context.Context, outcome recommendation.Outcome) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO recommendation_requests (id, user_id, status, kind, model, cached, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, outcome.ID, outcome.UserID, outcome.Status, string(outcome.Kind), outcome.Model, outcome.Cached, outcome.LatencyMs, outcome.CreatedAt)
	return err
}

// Recent returns the newest outcomes first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]recommendation.Outcome, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id, status, kind, model, cached, latency_ms, created_at
		FROM recommendation_requests
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []recommendation.Outcome
	for rows.Next() {
		outcome, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, outcome)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutcome(row rowScanner) (recommendation.Outcome, error) {
	var (
		outcome recommendation.Outcome
		kind    string
	)
	if err := row.Scan(&outcome.ID, &outcome.UserID, &outcome.Status, &kind, &outcome.Model, &outcome.Cached, &outcome.LatencyMs, &outcome.CreatedAt); err != nil {
		return recommendation.Outcome{}, err
	}
	outcome.Kind = recommendation.ErrorKind(kind)
	return outcome, nil
}

var _ recommendation.OutcomeLog = (*PostgresRepository)(nil)
