package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (e *EventStore) AppendAnalytics(ctx context.Context, data AnalyticsEventData) error {
	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	payload := "{}"
	if len(data.Payload) > 0 {
		payload = string(data.Payload)
	}

	err := e.insert(ctx, tableAnalytics,
		[]string{colTimestamp, colSessionID, colEventType, colElapsedMs, colQuestionID, colOption, colPayload},
		[]any{ts.UnixMilli(), data.SessionID, data.EventType, data.ElapsedMs, nullInt(data.QuestionID), nullInt(data.Option), payload},
	)
	if err != nil {
		return fmt.Errorf("save analytics event: %w", err)
	}
	return nil
}

// QueryAnalytics returns analytics events ordered by sequence, oldest first.
func (e *EventStore) QueryAnalytics(ctx context.Context, opts QueryOpts) ([]AnalyticsEvent, error) {
	sel := builder().
		Select(colID, colSequence, colTimestamp, colSessionID, colEventType, colElapsedMs, colQuestionID, colOption, colPayload).
		From(builder().Table(tableAnalytics)).
		OrderBy(colSequence)
	applyOpts(sel, opts)
	if opts.SessionID != "" {
		sel.Where(entsql.EQ(colSessionID, opts.SessionID))
	}
	if opts.EventType != "" {
		sel.Where(entsql.EQ(colEventType, opts.EventType))
	}

	query, args := sel.Query()
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analytics events: %w", err)
	}
	defer rows.Close()

	var out []AnalyticsEvent
	for rows.Next() {
		var (
			ev       AnalyticsEvent
			ts       int64
			qid, opt sql.NullInt64
			payload  string
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ts, &ev.SessionID, &ev.EventType, &ev.ElapsedMs, &qid, &opt, &payload); err != nil {
			return nil, fmt.Errorf("scan analytics event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(ts).UTC()
		ev.QuestionID = intPtr(qid)
		ev.Option = intPtr(opt)
		ev.Payload = []byte(payload)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountAnalyticsByType returns the number of events per event type, sorted
// by type name.
func (e *EventStore) CountAnalyticsByType(ctx context.Context) ([]EventTypeCount, error) {
	query, args := builder().
		Select(colEventType, entsql.Count("*")).
		From(builder().Table(tableAnalytics)).
		GroupBy(colEventType).
		OrderBy(colEventType).
		Query()

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count analytics events: %w", err)
	}
	defer rows.Close()

	var out []EventTypeCount
	for rows.Next() {
		var c EventTypeCount
		if err := rows.Scan(&c.EventType, &c.Count); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountSessions returns the number of distinct session ids that have at
// least one event of the given type.
func (e *EventStore) CountSessions(ctx context.Context, eventType string) (int, error) {
	query, args := builder().
		Select(entsql.Count("DISTINCT " + colSessionID)).
		From(builder().Table(tableAnalytics)).
		Where(entsql.EQ(colEventType, eventType)).
		Query()

	var n int
	if err := e.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// applyOpts adds the sequence, time and limit filters shared by all event
// queries.
func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT(colSequence, opts.After))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(colTimestamp, opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(colTimestamp, opts.To.UnixMilli()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
