package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	SessionID string    // analytics only
	EventType string    // analytics only
}

// AnalyticsEventData is one tracked quiz interaction.
type AnalyticsEventData struct {
	SessionID  string
	EventType  string
	ElapsedMs  int64
	QuestionID *int
	Option     *int
	Payload    json.RawMessage
	Timestamp  time.Time // zero means now
}

// AnalyticsEvent is a stored analytics row.
type AnalyticsEvent struct {
	ID       int
	Sequence int64
	AnalyticsEventData
}

// EventTypeCount is one row of CountAnalyticsByType.
type EventTypeCount struct {
	EventType string
	Count     int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request row.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendAnalytics records a quiz analytics event.
	AppendAnalytics(ctx context.Context, data AnalyticsEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}
