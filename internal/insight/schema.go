package insight

import "github.com/abhisek/maturity/internal/llm"

// CommentarySchema is the structured output expected from the model.
var CommentarySchema = &llm.Schema{
	Name:        "maturity-commentary",
	Description: "Short commentary on an experimentation maturity assessment result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One sentence verdict on the organisation's maturity (8-16 words)",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentences explaining the score pattern across categories",
			},
			"focus": map[string]any{
				"type":        "array",
				"description": "1-2 categories to invest in next, weakest first",
				"items": map[string]any{
					"type": "string",
					"enum": []any{"process", "strategy", "insight", "culture"},
				},
			},
		},
		"required":             []any{"headline", "summary", "focus"},
		"additionalProperties": false,
	},
}
