package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableKV        = "kv_entries"
	tableAnalytics = "analytics_events"
	tableLLM       = "llm_request_events"

	colID        = "id"
	colSequence  = "sequence"
	colTimestamp = "timestamp"

	colKey       = "key"
	colValue     = "value"
	colUpdatedAt = "updated_at"

	colSessionID  = "session_id"
	colEventType  = "event_type"
	colElapsedMs  = "elapsed_ms"
	colQuestionID = "question_id"
	colOption     = "option_index"
	colPayload    = "payload"

	colProvider     = "provider"
	colModel        = "model"
	colPurpose      = "purpose"
	colInputTokens  = "input_tokens"
	colOutputTokens = "output_tokens"
	colLatencyMs    = "latency_ms"
	colSuccess      = "success"
	colErrorMessage = "error_message"
	colRequestBody  = "request_body"
	colResponseBody = "response_body"
)

// Timestamps are stored as Unix milliseconds.
var (
	kvColumns = []*schema.Column{
		{Name: colKey, Type: field.TypeString, Size: 255},
		{Name: colValue, Type: field.TypeBytes},
		{Name: colUpdatedAt, Type: field.TypeInt64},
	}
	kvTable = &schema.Table{
		Name:       tableKV,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	analyticsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeInt64},
		{Name: colSessionID, Type: field.TypeString},
		{Name: colEventType, Type: field.TypeString},
		{Name: colElapsedMs, Type: field.TypeInt64},
		{Name: colQuestionID, Type: field.TypeInt, Nullable: true},
		{Name: colOption, Type: field.TypeInt, Nullable: true},
		{Name: colPayload, Type: field.TypeString, Size: 2147483647, Default: "{}"},
	}
	analyticsTable = &schema.Table{
		Name:       tableAnalytics,
		Columns:    analyticsColumns,
		PrimaryKey: []*schema.Column{analyticsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "analyticsevent_session_id", Columns: []*schema.Column{analyticsColumns[3]}},
			{Name: "analyticsevent_event_type", Columns: []*schema.Column{analyticsColumns[4]}},
		},
	}

	llmColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeInt64},
		{Name: colProvider, Type: field.TypeString},
		{Name: colModel, Type: field.TypeString},
		{Name: colPurpose, Type: field.TypeString},
		{Name: colInputTokens, Type: field.TypeInt},
		{Name: colOutputTokens, Type: field.TypeInt},
		{Name: colLatencyMs, Type: field.TypeInt64},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colRequestBody, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colResponseBody, Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmTable = &schema.Table{
		Name:       tableLLM,
		Columns:    llmColumns,
		PrimaryKey: []*schema.Column{llmColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmColumns[5]}},
		},
	}

	// Tables lists every table managed by auto-migration.
	Tables = []*schema.Table{
		kvTable,
		analyticsTable,
		llmTable,
	}
)
