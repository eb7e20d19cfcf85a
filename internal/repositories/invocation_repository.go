package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"asciify/internal/models"
)

var ErrInvocationNotFound = errors.New("invocation not found")

const maxErrorText = 2000

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id            TEXT PRIMARY KEY,
	function      TEXT NOT NULL,
	status        TEXT NOT NULL,
	trigger_name  TEXT,
	provider      TEXT,
	container     TEXT,
	blob_name     TEXT,
	size          BIGINT NOT NULL DEFAULT 0,
	error_code    TEXT,
	error_text    TEXT,
	started_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	finished_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS invocations_started_at_idx ON invocations (started_at DESC);
`

// InvocationRepository is the Postgres invocation ledger.
type InvocationRepository struct {
	db *pgxpool.Pool
}

func NewInvocationRepository(db *pgxpool.Pool) *InvocationRepository {
	return &InvocationRepository{db: db}
}

func (r *InvocationRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Start records inv as RUNNING. A redelivered id restarts its row.
func (r *InvocationRepository) Start(ctx context.Context, inv models.Invocation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO invocations (id, function, status, trigger_name, started_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE
		SET status=EXCLUDED.status, started_at=EXCLUDED.started_at,
		    finished_at=NULL, error_code=NULL, error_text=NULL
	`, inv.ID, inv.Function, models.StatusRunning, NullIfEmpty(inv.TriggerName), inv.StartedAt)
	return err
}

// Finish moves the row to DONE or FAILED.
func (r *InvocationRepository) Finish(ctx context.Context, inv models.Invocation) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE invocations
		SET status=$2, provider=$3, container=$4, blob_name=$5, size=$6,
		    error_code=$7, error_text=$8, finished_at=NOW()
		WHERE id=$1
	`,
		inv.ID,
		inv.Status,
		NullIfEmpty(inv.Provider),
		NullIfEmpty(inv.Container),
		NullIfEmpty(inv.BlobName),
		inv.Size,
		NullIfEmpty(inv.ErrorCode),
		NullIfEmpty(TruncateError(inv.ErrorText)),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvocationNotFound
	}
	return nil
}

func (r *InvocationRepository) List(ctx context.Context, limit int) ([]models.Invocation, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+columns+`
		FROM invocations
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Invocation{}
	for rows.Next() {
		inv, err := scanInvocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *InvocationRepository) Get(ctx context.Context, id string) (*models.Invocation, error) {
	inv, err := scanInvocation(r.db.QueryRow(ctx, `
		SELECT `+columns+`
		FROM invocations
		WHERE id=$1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvocationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

const columns = `id, function, status,
	COALESCE(trigger_name,''), COALESCE(provider,''), COALESCE(container,''),
	COALESCE(blob_name,''), size, COALESCE(error_code,''), COALESCE(error_text,''),
	started_at, finished_at`

func scanInvocation(row pgx.Row) (models.Invocation, error) {
	var (
		inv      models.Invocation
		finished *time.Time
	)
	err := row.Scan(
		&inv.ID,
		&inv.Function,
		&inv.Status,
		&inv.TriggerName,
		&inv.Provider,
		&inv.Container,
		&inv.BlobName,
		&inv.Size,
		&inv.ErrorCode,
		&inv.ErrorText,
		&inv.StartedAt,
		&finished,
	)
	inv.FinishedAt = finished
	return inv, err
}

func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// TruncateError caps error text at the ledger column budget.
func TruncateError(s string) string {
	if len(s) > maxErrorText {
		return s[:maxErrorText]
	}
	return s
}
