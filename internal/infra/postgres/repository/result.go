package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
	"github.com/aliskhannn/reaction-games-bot/internal/infra/postgres"
)

const schema = `
	CREATE TABLE IF NOT EXISTS session_results (
		id          BIGSERIAL PRIMARY KEY,
		session_id  TEXT        NOT NULL UNIQUE,
		kind        TEXT        NOT NULL,
		title       TEXT        NOT NULL,
		user_id     TEXT        NOT NULL,
		outcome     TEXT        NOT NULL,
		score       INTEGER     NOT NULL DEFAULT 0,
		total       INTEGER     NOT NULL DEFAULT 0,
		answered    INTEGER     NOT NULL DEFAULT 0,
		detail      TEXT        NOT NULL DEFAULT '',
		started_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS session_results_user_idx
		ON session_results (user_id, finished_at DESC);
`

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx postgres.DBTX) error) error
}

// ResultRepository stores finished session results in PostgreSQL.
type ResultRepository struct {
	db   postgres.DBTX
	tx   Transactor
	keep int
}

// NewResultRepository creates a ResultRepository. When keep is positive only
// the newest keep results per user are retained.
func NewResultRepository(db postgres.DBTX, tx Transactor, keep int) *ResultRepository {
	return &ResultRepository{db: db, tx: tx, keep: keep}
}

// EnsureSchema creates the results table if it does not exist.
func (r *ResultRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save inserts a result, sets its id and prunes the user's oldest results.
func (r *ResultRepository) Save(ctx context.Context, result *entities.Result) error {
	insert := `
		INSERT INTO session_results (
			session_id, kind, title, user_id, outcome,
			score, total, answered, detail, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	prune := `
		DELETE FROM session_results
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM session_results
			WHERE user_id = $1
			ORDER BY finished_at DESC, id DESC
			LIMIT $2
		)
	`

	return r.tx.WithinTx(ctx, func(ctx context.Context, tx postgres.DBTX) error {
		err := tx.QueryRow(
			ctx,
			insert,
			result.SessionID,
			string(result.Kind),
			result.Title,
			result.UserID,
			string(result.Outcome),
			result.Score,
			result.Total,
			result.Answered,
			result.Detail,
			result.StartedAt,
			result.FinishedAt,
		).Scan(&result.ID)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}

		if r.keep > 0 {
			if _, err := tx.Exec(ctx, prune, result.UserID, r.keep); err != nil {
				return fmt.Errorf("prune results: %w", err)
			}
		}
		return nil
	})
}

// Recent returns up to limit results of a user, newest first. A limit of
// zero or less returns all of them.
func (r *ResultRepository) Recent(ctx context.Context, userID string, limit int) ([]*entities.Result, error) {
	var lim any = limit
	if limit <= 0 {
		lim = nil // LIMIT NULL
	}

	query := `
		SELECT id, session_id, kind, title, user_id, outcome,
		       score, total, answered, detail, started_at, finished_at
		FROM session_results
		WHERE user_id = $1
		ORDER BY finished_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, lim)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []*entities.Result
	for rows.Next() {
		var (
			res     entities.Result
			kind    string
			outcome string
		)
		err := rows.Scan(
			&res.ID,
			&res.SessionID,
			&kind,
			&res.Title,
			&res.UserID,
			&outcome,
			&res.Score,
			&res.Total,
			&res.Answered,
			&res.Detail,
			&res.StartedAt,
			&res.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		res.Kind = entities.SessionKind(kind)
		res.Outcome = entities.Outcome(outcome)
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return results, nil
}
