// Package analytics records quiz interaction events to one or more sinks.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/maturity/internal/scoring"
	"github.com/abhisek/maturity/internal/store"
)

// EventType names a tracked interaction.
type EventType string

const (
	QuizStart      EventType = "quiz_start"
	QuestionAnswer EventType = "question_answer"
	QuizComplete   EventType = "quiz_complete"
	EmailSubmit    EventType = "email_submit"
	EmailSkip      EventType = "email_skip"
)

// Event is one tracked interaction. ElapsedMs is measured from the most
// recent quiz start.
type Event struct {
	Type       EventType      `json:"eventType"`
	SessionID  string         `json:"sessionId"`
	Timestamp  time.Time      `json:"timestamp"`
	ElapsedMs  int64          `json:"timeSpent"`
	QuestionID *int           `json:"questionId,omitempty"`
	Answer     *int           `json:"answer,omitempty"`
	Email      string         `json:"email,omitempty"`
	Scores     map[string]int `json:"scores,omitempty"`
}

// Sink receives tracked events.
type Sink interface {
	Record(ctx context.Context, e Event) error
}

// Tracker stamps events with the session id and elapsed time and fans
// them out to its sinks. Sink failures are logged, never returned.
type Tracker struct {
	mu        sync.Mutex
	sessionID string
	start     time.Time
	now       func() time.Time
	sinks     []Sink
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithSessionID fixes the session id instead of generating one.
func WithSessionID(id string) Option {
	return func(t *Tracker) { t.sessionID = id }
}

// NewTracker creates a tracker writing to sinks.
func NewTracker(sinks []Sink, opts ...Option) *Tracker {
	t := &Tracker{now: time.Now, sinks: sinks}
	for _, o := range opts {
		o(t)
	}
	if t.sessionID == "" {
		t.sessionID = uuid.NewString()
	}
	t.start = t.now()
	return t
}

// SessionID returns the id attached to every event.
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

// Resume sets the elapsed-time origin, used when a session is restored
// from a snapshot.
func (t *Tracker) Resume(startedAt time.Time) {
	if startedAt.IsZero() {
		return
	}
	t.mu.Lock()
	t.start = startedAt
	t.mu.Unlock()
}

// Restart begins a new session with a fresh id.
func (t *Tracker) Restart() {
	t.mu.Lock()
	t.sessionID = uuid.NewString()
	t.start = t.now()
	t.mu.Unlock()
}

// TrackQuizStart resets the elapsed-time origin and records quiz_start.
func (t *Tracker) TrackQuizStart(ctx context.Context) {
	t.mu.Lock()
	t.start = t.now()
	t.mu.Unlock()
	t.track(ctx, Event{Type: QuizStart})
}

func (t *Tracker) TrackQuestionAnswer(ctx context.Context, questionID, answer int) {
	t.track(ctx, Event{Type: QuestionAnswer, QuestionID: &questionID, Answer: &answer})
}

func (t *Tracker) TrackQuizComplete(ctx context.Context, r scoring.Result) {
	scores := make(map[string]int, len(r.Categories)+1)
	for c, pct := range r.Categories {
		scores[string(c)] = pct
	}
	scores["overall"] = r.Overall
	t.track(ctx, Event{Type: QuizComplete, Scores: scores})
}

func (t *Tracker) TrackEmailSubmit(ctx context.Context, email string) {
	t.track(ctx, Event{Type: EmailSubmit, Email: email})
}

func (t *Tracker) TrackEmailSkip(ctx context.Context) {
	t.track(ctx, Event{Type: EmailSkip})
}

func (t *Tracker) track(ctx context.Context, e Event) {
	t.mu.Lock()
	now := t.now()
	e.SessionID = t.sessionID
	e.Timestamp = now
	e.ElapsedMs = now.Sub(t.start).Milliseconds()
	sinks := t.sinks
	t.mu.Unlock()

	for _, s := range sinks {
		if err := s.Record(ctx, e); err != nil {
			log.Printf("[analytics] %s: %v", e.Type, err)
		}
	}
}

// RepoSink stores events in the analytics_events table.
type RepoSink struct {
	Repo store.EventRepo
}

func (s RepoSink) Record(ctx context.Context, e Event) error {
	var payload json.RawMessage
	if e.Email != "" || len(e.Scores) > 0 {
		b, err := json.Marshal(struct {
			Email  string         `json:"email,omitempty"`
			Scores map[string]int `json:"scores,omitempty"`
		}{e.Email, e.Scores})
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		payload = b
	}
	return s.Repo.AppendAnalytics(ctx, store.AnalyticsEventData{
		SessionID:  e.SessionID,
		EventType:  string(e.Type),
		ElapsedMs:  e.ElapsedMs,
		QuestionID: e.QuestionID,
		Option:     e.Answer,
		Payload:    payload,
		Timestamp:  e.Timestamp,
	})
}

// LogSink writes each event as a JSON line to the standard logger.
type LogSink struct{}

func (LogSink) Record(_ context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	log.Printf("[analytics] %s", b)
	return nil
}
