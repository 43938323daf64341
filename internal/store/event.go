package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter hands out one increasing sequence shared by analytics
// and LLM request events, so a single ordering covers both tables.
//
// Raw SQL because the builder has no notion of an atomic counter. The
// mutex serializes callers in this process and RETURNING makes the
// increment atomic in the database.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS event_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	if _, err := db.Exec(`INSERT OR IGNORE INTO event_sequence (id, next_val) VALUES (1, 1)`); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE event_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// EventStore implements EventRepo on SQLite and adds the read side used by
// the stats and llm commands.
type EventStore struct {
	db  *sql.DB
	seq *sequenceCounter
}

var _ EventRepo = (*EventStore)(nil)

// insert runs a built INSERT with a freshly allocated sequence number
// prepended to cols and vals.
func (e *EventStore) insert(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := e.seq.Next(ctx)
	if err != nil {
		return err
	}
	cols = append([]string{colSequence}, cols...)
	vals = append([]any{seqNum}, vals...)

	query, args := builder().Insert(table).Columns(cols...).Values(vals...).Query()
	if _, err := e.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}
