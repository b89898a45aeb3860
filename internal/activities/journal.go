package activities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitdash/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"

	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

const JournalSchema = `
CREATE TABLE IF NOT EXISTS sync_journal
(
    id          SERIAL PRIMARY KEY,
    owner       VARCHAR     NOT NULL,
    op          VARCHAR     NOT NULL,
    activity_ids BIGINT[]   NOT NULL DEFAULT '{}',
    success     BOOLEAN     NOT NULL,
    status      INTEGER     NOT NULL,
    message     TEXT        NOT NULL,
    retry_after INTEGER,
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_sync_journal_owner_created_at ON sync_journal (owner, created_at);

ALTER TABLE sync_journal ADD COLUMN IF NOT EXISTS pending JSONB NOT NULL DEFAULT '[]';
`

// JournalEntry records one persistence attempt against the fitness backend.
type JournalEntry struct {
	ID          int     `json:"id"`
	Owner       string  `json:"owner"`
	Op          string  `json:"op"`
	ActivityIDs []int64 `json:"activityIds"`
	// Pending holds the activities of the attempt that had no id yet.
	Pending    []PendingActivity `json:"pending"`
	Success    bool              `json:"success"`
	Status     int               `json:"status"`
	Message    string            `json:"message"`
	RetryAfter *int              `json:"retryAfter,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type Journal struct {
	db *pgxpool.Pool
}

func NewJournal(db *pgxpool.Pool) *Journal {
	return &Journal{
		db: db,
	}
}

func (j *Journal) EnsureSchema(ctx context.Context) error {
	if _, err := j.db.Exec(ctx, JournalSchema); err != nil {
		return fmt.Errorf("sync journal schema: %w", err)
	}
	return nil
}

func (j *Journal) Add(ctx context.Context, entry JournalEntry) (_ *JournalEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.journal.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if entry.Owner == "" || entry.Op == "" {
		return nil, errors.New("journal entry owner or op empty")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.ActivityIDs == nil {
		entry.ActivityIDs = []int64{}
	}
	if entry.Pending == nil {
		entry.Pending = []PendingActivity{}
	}

	err = j.db.QueryRow(
		ctx,
		`
			INSERT INTO sync_journal
				(owner, op, activity_ids, pending, success, status, message, retry_after, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id;
		`,
		entry.Owner, entry.Op, entry.ActivityIDs, entry.Pending, entry.Success,
		entry.Status, entry.Message, entry.RetryAfter, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("journal add [query row]: %w", err)
	}

	return &entry, nil
}

// List returns the owner's newest entries first. onlyFailed filters out successful attempts.
func (j *Journal) List(ctx context.Context, owner string, onlyFailed bool, limit int) (_ []JournalEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.journal.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("only_failed", onlyFailed))

	if limit <= 0 {
		limit = defaultJournalLimit
	}
	if limit > maxJournalLimit {
		limit = maxJournalLimit
	}

	rows, err := j.db.Query(
		ctx,
		`
			SELECT
				id, owner, op, activity_ids, pending, success, status, message, retry_after, created_at
			FROM sync_journal
			WHERE owner = $1 AND ($2 = FALSE OR success = FALSE)
			ORDER BY created_at DESC, id DESC
			LIMIT $3;
		`,
		owner, onlyFailed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal list [query]: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(
			&e.ID, &e.Owner, &e.Op, &e.ActivityIDs, &e.Pending, &e.Success,
			&e.Status, &e.Message, &e.RetryAfter, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("journal list [rows scan]: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal list [rows]: %w", err)
	}

	return entries, nil
}
