package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/maturity/internal/crm"
	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/report"
)

type fakeReports struct {
	got report.Bundle
	err error
}

func (f *fakeReports) Generate(_ context.Context, b report.Bundle) (*report.Document, string, error) {
	f.got = b
	if f.err != nil {
		return nil, "", f.err
	}
	return &report.Document{Data: []byte("%PDF-1.4"), Filename: report.Filename, MimeType: "application/pdf"}, "", nil
}

type fakeLeads struct {
	got crm.Lead
	err error
}

func (f *fakeLeads) CreateLead(_ context.Context, l crm.Lead) (string, error) {
	f.got = l
	return "00Q1", f.err
}

const bundleJSON = `{
	"email": "ada@example.com",
	"userData": {"name": "Ada Lovelace", "company": "Engines"},
	"scores": {
		"categoryPercentages": {"process": 85, "strategy": 65, "insight": 140, "culture": 70},
		"overallPercentage": 65
	}
}`

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	rec := do(t, NewRouter(Deps{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGeneratePDF(t *testing.T) {
	reports := &fakeReports{}
	h := NewRouter(Deps{Reports: reports})

	rec := do(t, h, http.MethodPost, "/api/generate-pdf", bundleJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=experimentation-maturity-report.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())

	assert.Equal(t, 100, reports.got.Scores.Categories[questions.Insight], "scores are clamped before rendering")
	assert.Equal(t, 65, reports.got.Scores.Overall)
}

func TestGeneratePDF_SessionIDSanitized(t *testing.T) {
	tests := []struct {
		name, id, want string
	}{
		{"traversal", "../../private/admin", ""},
		{"uuid", "6f1c2a9e-3b7d-4c1e-9a55-0d2f7e8b1c44", "6f1c2a9e-3b7d-4c1e-9a55-0d2f7e8b1c44"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := &fakeReports{}
			h := NewRouter(Deps{Reports: reports})

			body := strings.Replace(bundleJSON, "{", `{"sessionId": "`+tt.id+`",`, 1)
			rec := do(t, h, http.MethodPost, "/api/generate-pdf", body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, reports.got.SessionID)
		})
	}
}

func TestGeneratePDF_BadRequests(t *testing.T) {
	h := NewRouter(Deps{Reports: &fakeReports{}})

	for name, body := range map[string]string{
		"no scores":    `{"email":"a@b.io"}`,
		"empty scores": `{"scores":{"categoryPercentages":{},"overallPercentage":0}}`,
		"not json":     `scores please`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/generate-pdf", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGeneratePDF_RenderFailure(t *testing.T) {
	h := NewRouter(Deps{Reports: &fakeReports{err: errors.New("chrome crashed")}})
	rec := do(t, h, http.MethodPost, "/api/generate-pdf", bundleJSON)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate PDF report", errorBody(t, rec))
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewRouter(Deps{Reports: &fakeReports{}})
	rec := do(t, h, http.MethodGet, "/api/generate-pdf", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(Deps{CORSOrigin: "https://quiz.example.com"})
	rec := do(t, h, http.MethodOptions, "/api/subscribe", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://quiz.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribe(t *testing.T) {
	var got map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribers", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer upstream.Close()

	ml := crm.NewMailerLite("ml-key", "", crm.WithBaseURL(upstream.URL))
	h := NewRouter(Deps{List: ml})

	rec := do(t, h, http.MethodPost, "/api/subscribe",
		`{"email":"ada@example.com","name":"Ada","company":"Engines","score":65,"personaName":"Expert Experimenter"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", got["email"])
	fields := got["fields"].(map[string]any)
	assert.Equal(t, "65", fields["quiz_score"])
	assert.Equal(t, "Expert Experimenter", fields["persona"])
}

func TestSubscribe_Errors(t *testing.T) {
	rec := do(t, NewRouter(Deps{}), http.MethodPost, "/api/subscribe", `{"name":"Ada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is required", errorBody(t, rec))

	rec = do(t, NewRouter(Deps{}), http.MethodPost, "/api/subscribe", `{"email":"a@b.io"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(t, NewRouter(Deps{List: crm.NewMailerLite("", "")}), http.MethodPost, "/api/subscribe", `{"email":"a@b.io"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"The email must be a valid email address."}`))
	}))
	defer upstream.Close()
	ml := crm.NewMailerLite("ml-key", "", crm.WithBaseURL(upstream.URL))
	rec = do(t, NewRouter(Deps{List: ml}), http.MethodPost, "/api/subscribe", `{"email":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "The email must be a valid email address.", errorBody(t, rec))
}

func TestCreateLead(t *testing.T) {
	leads := &fakeLeads{}
	rec := do(t, NewRouter(Deps{Leads: leads}), http.MethodPost, "/api/salesforce/lead", bundleJSON)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"id":"00Q1"}`, rec.Body.String())
	assert.Equal(t, "Ada Lovelace", leads.got.Name)
	assert.Equal(t, "Engines", leads.got.Company)
	assert.Equal(t, 100, leads.got.Scores.Categories[questions.Insight])
}

func TestCreateLead_Errors(t *testing.T) {
	rec := do(t, NewRouter(Deps{Leads: &fakeLeads{}}), http.MethodPost, "/api/salesforce/lead", `{"scores":{"overallPercentage":5}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, NewRouter(Deps{}), http.MethodPost, "/api/salesforce/lead", bundleJSON)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	failing := &fakeLeads{err: &crm.APIError{Service: "Salesforce", StatusCode: http.StatusBadRequest, Message: "REQUIRED_FIELD_MISSING"}}
	rec = do(t, NewRouter(Deps{Leads: failing}), http.MethodPost, "/api/salesforce/lead", bundleJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REQUIRED_FIELD_MISSING", errorBody(t, rec))
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, "127.0.0.1:0", NewRouter(Deps{})) }()
	cancel()
	assert.NoError(t, <-done)
}
