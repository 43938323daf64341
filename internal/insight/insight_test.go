package insight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/maturity/internal/llm"
	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

func sampleResult() scoring.Result {
	return scoring.Result{
		Categories: map[questions.Category]int{
			questions.Process:  85,
			questions.Strategy: 65,
			questions.Insight:  40,
			questions.Culture:  70,
		},
		Overall: 65,
	}
}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{
		"headline": "Strong mechanics, weak learning loop.",
		"summary":  "Tests run well but results rarely change decisions.",
		"focus":    []string{"insight", "insight", "culture"},
	}))
	svc := NewService(mock, DefaultConfig())

	c, err := svc.Generate(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "Strong mechanics, weak learning loop.", c.Headline)
	assert.Equal(t, []questions.Category{questions.Insight, questions.Culture}, c.Focus)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, CommentarySchema, req.Schema)
	assert.Equal(t, systemPrompt, req.System)
	assert.Contains(t, req.Messages[0].Content, "Overall maturity: 65% (Expert Experimenter)")
	assert.Contains(t, req.Messages[0].Content, "- insight: 40% (low)")
	assert.Contains(t, req.Messages[0].Content, "- process: 85% (high)")
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})
	_, err := NewService(mock, DefaultConfig()).Generate(context.Background(), sampleResult())
	var rl *llm.ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestGenerate_Disabled(t *testing.T) {
	_, err := NewService(nil, DefaultConfig()).Generate(context.Background(), sampleResult())
	assert.ErrorIs(t, err, ErrDisabled)

	var nilSvc *Service
	assert.False(t, nilSvc.Enabled())
}

func TestCommentarySchema_RejectsUnknownFocus(t *testing.T) {
	p := llm.WithRetry(schemaChecked{llm.NewMockProvider(llm.MockJSON(map[string]any{
		"headline": "h", "summary": "s", "focus": []string{"tooling"},
	}))}, llm.RetryConfig{MaxAttempts: 1})
	_, err := NewService(p, Config{}).Generate(context.Background(), sampleResult())
	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

// schemaChecked validates mock output the way real providers do.
type schemaChecked struct{ *llm.MockProvider }

func (s schemaChecked) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	resp, err := s.MockProvider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := llm.ValidateContent(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}
