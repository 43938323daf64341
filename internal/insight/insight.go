// Package insight asks a language model for a short commentary on a
// completed assessment.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/maturity/internal/llm"
	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/scoring"
)

// Purpose labels commentary requests in the LLM event log.
const Purpose = "insight"

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("ai commentary disabled")

// Commentary is the model's take on a result.
type Commentary struct {
	Headline string               `json:"headline"`
	Summary  string               `json:"summary"`
	Focus    []questions.Category `json:"focus"`
}

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func DefaultConfig() Config {
	return Config{MaxTokens: 400, Temperature: 0.3, Timeout: 20 * time.Second}
}

// Service produces commentary. A nil provider yields ErrDisabled.
type Service struct {
	provider llm.Provider
	cfg      Config
}

func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Enabled reports whether a provider is wired.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Generate requests commentary for r. It blocks; callers on the UI
// thread should run it from a command.
func (s *Service) Generate(ctx context.Context, r scoring.Result) (*Commentary, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req := llm.Prompt(systemPrompt, buildPrompt(r), CommentarySchema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, Purpose), req)
	if err != nil {
		return nil, fmt.Errorf("generate commentary: %w", err)
	}

	var c Commentary
	if err := json.Unmarshal(resp.Content, &c); err != nil {
		return nil, fmt.Errorf("decode commentary: %w", err)
	}
	c.Focus = dedupe(c.Focus)
	return &c, nil
}

// dedupe drops repeated and unknown categories, keeping order.
func dedupe(in []questions.Category) []questions.Category {
	seen := make(map[questions.Category]bool, len(in))
	out := in[:0]
	for _, c := range in {
		if c.Valid() && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
