package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// PlayLogEntry is one answered question of a finished game.
type PlayLogEntry struct {
	Timestamp  time.Time
	Grade      string
	Class      string
	StudentID  string
	QuestionID int
	Category   string
	IsCorrect  bool
}

// PlayLogRecord is a stored play log entry.
type PlayLogRecord struct {
	PlayLogEntry
	Sequence  int64
	Profile   string
	SessionID string
}

// EventRepo provides append and query access to the play log.
type EventRepo interface {
	// AppendPlayLog records the entries of one game in a single transaction.
	AppendPlayLog(ctx context.Context, profile, sessionID string, entries []PlayLogEntry) error

	// QueryPlayLogs returns a profile's entries, newest first.
	QueryPlayLogs(ctx context.Context, profile string, opts QueryOpts) ([]PlayLogRecord, error)
}

// eventRepo implements EventRepo.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendPlayLog(ctx context.Context, profile, sessionID string, entries []PlayLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	// Sequence numbers are taken before the transaction opens; the counter
	// writes on its own connection and would wait on our write lock.
	seqs := make([]int64, len(entries))
	for i := range entries {
		n, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		seqs[i] = n
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i, e := range entries {
		query, args := builder().
			Insert(playLogTable).
			Columns("sequence", "profile", "session_id", "played_at", "grade", "class",
				"student_id", "question_id", "category", "is_correct").
			Values(seqs[i], profile, sessionID, e.Timestamp.UnixMilli(), e.Grade, e.Class,
				e.StudentID, e.QuestionID, e.Category, e.IsCorrect).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save play log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit play log: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPlayLogs(ctx context.Context, profile string, opts QueryOpts) ([]PlayLogRecord, error) {
	preds := []*entsql.Predicate{entsql.EQ("profile", profile)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("played_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("played_at", opts.To.UnixMilli()))
	}

	sel := builder().
		Select("sequence", "profile", "session_id", "played_at", "grade", "class",
			"student_id", "question_id", "category", "is_correct").
		From(builder().Table(playLogTable)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query play logs: %w", err)
	}
	defer rows.Close()

	var records []PlayLogRecord
	for rows.Next() {
		var rec PlayLogRecord
		var playedAt int64
		if err := rows.Scan(&rec.Sequence, &rec.Profile, &rec.SessionID, &playedAt,
			&rec.Grade, &rec.Class, &rec.StudentID, &rec.QuestionID, &rec.Category, &rec.IsCorrect); err != nil {
			return nil, fmt.Errorf("scan play log: %w", err)
		}
		rec.Timestamp = time.UnixMilli(playedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate play logs: %w", err)
	}
	return records, nil
}

// sequenceCounter manages the global monotonic sequence number assigned to
// every event. Row ids alone can't order events once tables are pruned or
// merged, so a single counter gives each event a stable position.
//
// Uses raw SQL because the query builder has no atomic counter primitive. The
// mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
