package analytics

import (
	"context"
	"fmt"

	"github.com/abhisek/maturity/internal/store"
)

// FunnelSource is the read side of the analytics store.
type FunnelSource interface {
	CountSessions(ctx context.Context, eventType string) (int, error)
	QueryAnalytics(ctx context.Context, opts store.QueryOpts) ([]store.AnalyticsEvent, error)
}

// Funnel counts sessions at each step of the quiz.
type Funnel struct {
	Started   int
	Completed int
	Submitted int
	Skipped   int

	// AvgCompletionMs is the mean time from start to the last answer.
	AvgCompletionMs int64
}

// CompletionRate is Completed/Started, 0 when nothing started.
func (f Funnel) CompletionRate() float64 {
	return ratio(f.Completed, f.Started)
}

// CaptureRate is the share of completed sessions that left an email.
func (f Funnel) CaptureRate() float64 {
	return ratio(f.Submitted, f.Completed)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// LoadFunnel aggregates the stored events.
func LoadFunnel(ctx context.Context, src FunnelSource) (Funnel, error) {
	var f Funnel
	steps := []struct {
		typ EventType
		dst *int
	}{
		{QuizStart, &f.Started},
		{QuizComplete, &f.Completed},
		{EmailSubmit, &f.Submitted},
		{EmailSkip, &f.Skipped},
	}
	for _, s := range steps {
		n, err := src.CountSessions(ctx, string(s.typ))
		if err != nil {
			return Funnel{}, fmt.Errorf("count %s: %w", s.typ, err)
		}
		*s.dst = n
	}

	done, err := src.QueryAnalytics(ctx, store.QueryOpts{EventType: string(QuizComplete)})
	if err != nil {
		return Funnel{}, fmt.Errorf("query completions: %w", err)
	}
	if len(done) > 0 {
		var total int64
		for _, e := range done {
			total += e.ElapsedMs
		}
		f.AvgCompletionMs = total / int64(len(done))
	}
	return f, nil
}
