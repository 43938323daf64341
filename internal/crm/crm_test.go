package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

func sampleScores() scoring.Result {
	return scoring.Result{
		Categories: map[questions.Category]int{
			questions.Process:  50,
			questions.Strategy: 75,
			questions.Insight:  100,
			questions.Culture:  25,
		},
		Overall: 63,
	}
}

func fastRetries() ClientOption { return WithRetries(3, time.Millisecond) }

func TestMailerLite_Subscribe(t *testing.T) {
	var got mailerLiteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribers", r.URL.Path)
		assert.Equal(t, "Bearer ml-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer srv.Close()

	ml := NewMailerLite("ml-key", "", WithBaseURL(srv.URL))
	score := 63
	err := ml.Subscribe(context.Background(), Subscriber{Email: " ada@example.com ", Name: "Ada", Company: "Engines", Score: &score, PersonaName: "Experimentation Expert"})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, []string{DefaultMailerLiteGroup}, got.Groups)
	assert.Equal(t, map[string]string{
		"name":       "Ada",
		"company":    "Engines",
		"quiz_score": "63",
		"persona":    "Experimentation Expert",
	}, got.Fields)
}

func TestMailerLite_NilScoreIsEmpty(t *testing.T) {
	var got mailerLiteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	ml := NewMailerLite("k", "group-7", WithBaseURL(srv.URL))
	require.NoError(t, ml.Subscribe(context.Background(), Subscriber{Email: "a@b.io"}))
	assert.Equal(t, "", got.Fields["quiz_score"])
	assert.Equal(t, []string{"group-7"}, got.Groups)
}

func TestMailerLite_NotConfigured(t *testing.T) {
	ml := NewMailerLite("", "")
	assert.False(t, ml.Configured())
	assert.ErrorIs(t, ml.Subscribe(context.Background(), Subscriber{Email: "a@b.io"}), ErrNotConfigured)
}

func TestMailerLite_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"The email must be a valid email address."}`))
	}))
	defer srv.Close()

	ml := NewMailerLite("k", "", WithBaseURL(srv.URL), fastRetries())
	err := ml.Subscribe(context.Background(), Subscriber{Email: "nope"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "The email must be a valid email address.", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMailerLite_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ml := NewMailerLite("k", "", WithBaseURL(srv.URL), fastRetries())
	require.NoError(t, ml.Subscribe(context.Background(), Subscriber{Email: "a@b.io"}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestMailerLite_RetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ml := NewMailerLite("k", "", WithBaseURL(srv.URL), fastRetries())
	err := ml.Subscribe(context.Background(), Subscriber{Email: "a@b.io"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestBuildLead(t *testing.T) {
	lead := BuildLead(Lead{Email: "ada@example.com", Name: "Ada King Lovelace", Company: "Engines", Scores: sampleScores()})

	assert.Equal(t, "Ada", lead.FirstName)
	assert.Equal(t, "King Lovelace", lead.LastName)
	assert.Equal(t, "Engines", lead.Company)
	assert.Equal(t, LeadSource, lead.LeadSource)
	assert.Equal(t, LeadStatus, lead.Status)
	assert.Equal(t, "Warm", lead.Rating)
	assert.Equal(t, 63, lead.ExperimentationScore)
	assert.Equal(t, 50, lead.ProcessScore)
	assert.Equal(t, 75, lead.StrategyScore)
	assert.Equal(t, 100, lead.InsightScore)
	assert.Equal(t, 25, lead.CultureScore)
	assert.Equal(t, "Experimentation Maturity Assessment Results:\n"+
		"Overall Score: 63%\n"+
		"Process Score: 50%\n"+
		"Strategy Score: 75%\n"+
		"Insight Score: 100%\n"+
		"Culture Score: 25%", lead.Description)
}

func TestBuildLead_NameFallbacks(t *testing.T) {
	tests := []struct {
		name, first, last string
	}{
		{"", "", "Unknown"},
		{"Cher", "Cher", "Unknown"},
		{"  Grace   Hopper ", "Grace", "Hopper"},
	}
	for _, tt := range tests {
		lead := BuildLead(Lead{Name: tt.name, Scores: sampleScores()})
		assert.Equal(t, tt.first, lead.FirstName, tt.name)
		assert.Equal(t, tt.last, lead.LastName, tt.name)
		assert.Equal(t, "Unknown", lead.Company)
	}
}

func TestSalesforce_CreateLead(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/sobjects/Lead", r.URL.Path)
		assert.Equal(t, "Bearer sf-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"00Q5g000001","success":true,"errors":[]}`))
	}))
	defer srv.Close()

	sf := NewSalesforce(srv.URL+"/", "sf-token")
	id, err := sf.CreateLead(context.Background(), Lead{Email: "a@b.io", Name: "A B", Company: "C", Scores: sampleScores()})
	require.NoError(t, err)
	assert.Equal(t, "00Q5g000001", id)
	assert.Equal(t, float64(63), body["ExperimentationScore__c"])
	assert.Equal(t, "Open - Not Contacted", body["Status"])
}

func TestSalesforce_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`[{"message":"Email: invalid email address","errorCode":"INVALID_EMAIL_ADDRESS"}]`))
	}))
	defer srv.Close()

	_, err := NewSalesforce(srv.URL, "t").CreateLead(context.Background(), Lead{Scores: sampleScores()})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_EMAIL_ADDRESS: Email: invalid email address", apiErr.Message)
}

func TestSalesforce_NotConfigured(t *testing.T) {
	_, err := NewSalesforce("", "").CreateLead(context.Background(), Lead{})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestPostJSON_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ml := NewMailerLite("k", "", WithBaseURL(srv.URL), WithRetries(5, time.Hour))
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := ml.Subscribe(ctx, Subscriber{Email: "a@b.io"})
	assert.ErrorIs(t, err, context.Canceled)
}
