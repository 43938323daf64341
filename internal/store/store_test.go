package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intp(n int) *int { return &n }

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.KV().Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("get after reopen = %q, %v", got, err)
	}
}

func TestKV_PutGetDelete(t *testing.T) {
	kv := openTestStore(t).KV()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := kv.Put(ctx, "quiz_state", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "quiz_state", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "quiz_state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"a":2}` {
		t.Errorf("get = %s, want overwritten value", got)
	}

	if err := kv.Delete(ctx, "quiz_state"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := kv.Get(ctx, "quiz_state"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := kv.Delete(ctx, "quiz_state"); err != nil {
		t.Fatalf("deleting a missing key should not fail: %v", err)
	}
}

func TestSequenceIsSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendAnalytics(ctx, AnalyticsEventData{SessionID: "s1", EventType: "quiz_start"}); err != nil {
		t.Fatalf("append analytics: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "insight", Success: true}); err != nil {
		t.Fatalf("append llm: %v", err)
	}
	if err := repo.AppendAnalytics(ctx, AnalyticsEventData{SessionID: "s1", EventType: "quiz_complete"}); err != nil {
		t.Fatalf("append analytics: %v", err)
	}

	events, err := repo.QueryAnalytics(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query analytics: %v", err)
	}
	llm, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query llm: %v", err)
	}
	if len(events) != 2 || len(llm) != 1 {
		t.Fatalf("got %d analytics and %d llm events", len(events), len(llm))
	}
	if !(events[0].Sequence < llm[0].Sequence && llm[0].Sequence < events[1].Sequence) {
		t.Errorf("sequences not interleaved: %d, %d, %d", events[0].Sequence, llm[0].Sequence, events[1].Sequence)
	}
}

func TestAnalytics_RoundTripAndFilters(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	data := []AnalyticsEventData{
		{SessionID: "a", EventType: "quiz_start", Timestamp: base},
		{SessionID: "a", EventType: "question_answer", ElapsedMs: 1200, QuestionID: intp(0), Option: intp(3), Timestamp: base.Add(time.Second)},
		{SessionID: "b", EventType: "quiz_start", Timestamp: base.Add(time.Minute)},
		{SessionID: "a", EventType: "quiz_complete", Payload: json.RawMessage(`{"overall":72}`), Timestamp: base.Add(2 * time.Minute)},
	}
	for _, d := range data {
		if err := repo.AppendAnalytics(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryAnalytics(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 events, got %d", len(all))
	}
	answer := all[1]
	if answer.QuestionID == nil || *answer.QuestionID != 0 || answer.Option == nil || *answer.Option != 3 {
		t.Errorf("answer event lost question/option: %+v", answer)
	}
	if answer.ElapsedMs != 1200 {
		t.Errorf("elapsed = %d, want 1200", answer.ElapsedMs)
	}
	if !answer.Timestamp.Equal(base.Add(time.Second)) {
		t.Errorf("timestamp = %v", answer.Timestamp)
	}
	if all[0].QuestionID != nil {
		t.Error("start event should have no question id")
	}
	if string(all[0].Payload) != "{}" {
		t.Errorf("empty payload stored as %q, want {}", all[0].Payload)
	}
	if string(all[3].Payload) != `{"overall":72}` {
		t.Errorf("payload = %s", all[3].Payload)
	}

	bySession, _ := repo.QueryAnalytics(ctx, QueryOpts{SessionID: "a"})
	if len(bySession) != 3 {
		t.Errorf("session filter: got %d, want 3", len(bySession))
	}
	byType, _ := repo.QueryAnalytics(ctx, QueryOpts{EventType: "quiz_start"})
	if len(byType) != 2 {
		t.Errorf("type filter: got %d, want 2", len(byType))
	}
	byTime, _ := repo.QueryAnalytics(ctx, QueryOpts{From: base.Add(30 * time.Second)})
	if len(byTime) != 2 {
		t.Errorf("time filter: got %d, want 2", len(byTime))
	}
	limited, _ := repo.QueryAnalytics(ctx, QueryOpts{Limit: 1})
	if len(limited) != 1 || limited[0].EventType != "quiz_start" {
		t.Errorf("limit: got %+v", limited)
	}
	after, _ := repo.QueryAnalytics(ctx, QueryOpts{After: all[2].Sequence})
	if len(after) != 1 || after[0].EventType != "quiz_complete" {
		t.Errorf("after: got %+v", after)
	}

	counts, err := repo.CountAnalyticsByType(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	want := []EventTypeCount{{"question_answer", 1}, {"quiz_complete", 1}, {"quiz_start", 2}}
	if len(counts) != len(want) {
		t.Fatalf("counts = %+v", counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, counts[i], want[i])
		}
	}

	sessions, err := repo.CountSessions(ctx, "quiz_start")
	if err != nil || sessions != 2 {
		t.Errorf("CountSessions = %d, %v; want 2", sessions, err)
	}
}

func TestLLMEvents_QueryAndUsage(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	calls := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-x", Purpose: "insight", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "[user]\nhi", ResponseBody: "{}"},
		{Provider: "anthropic", Model: "claude-x", Purpose: "insight", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-y", Purpose: "summary", InputTokens: 10, OutputTokens: 5, LatencyMs: 90, Success: false, ErrorMessage: "boom"},
	}
	for _, c := range calls {
		if err := repo.AppendLLMRequest(ctx, c); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 || events[0].Model != "gpt-y" {
		t.Fatalf("expected newest first, got %+v", events)
	}
	if events[0].Success || events[0].ErrorMessage != "boom" {
		t.Errorf("failure not recorded: %+v", events[0])
	}

	oldest := events[1].ID - 1
	e, err := repo.GetLLMEvent(ctx, oldest)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.RequestBody != "[user]\nhi" || e.ResponseBody != "{}" || !e.Success {
		t.Errorf("unexpected event %+v", e)
	}
	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("missing event = %+v, %v", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purposes, got %+v", byPurpose)
	}
	ins := byPurpose[0]
	if ins.Purpose != "insight" || ins.Calls != 2 || ins.InputTokens != 400 || ins.OutputTokens != 200 || ins.AvgLatencyMs != 300 {
		t.Errorf("insight usage = %+v", ins)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "claude-x" || byModel[1].Calls != 1 {
		t.Errorf("model usage = %+v", byModel)
	}
}

func TestWithConnPragmas(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a.db", "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:a.db?mode=rwc", "file:a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"a.db?_pragma=journal_mode(WAL)", "a.db?_pragma=journal_mode(WAL)"},
	}
	for _, tt := range tests {
		if got := withConnPragmas(tt.in); got != tt.want {
			t.Errorf("withConnPragmas(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultDBPath_Env(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "x.db")
	t.Setenv("MATURITY_DB", p)
	got, err := DefaultDBPath()
	if err != nil || got != p {
		t.Fatalf("DefaultDBPath = %q, %v", got, err)
	}
}

func TestDataDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DataDir()
	if err != nil || got != filepath.Join(dir, "maturity") {
		t.Fatalf("DataDir = %q, %v", got, err)
	}
}
