package review

import "github.com/abhisek/quizdeck/internal/llm"

// ReviewSchema defines the JSON schema for AI review payloads.
var ReviewSchema = &llm.Schema{
	Name:        "quiz-review",
	Description: "A performance review for one completed quiz attempt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":    map[string]any{"type": "number"},
			"total":    map[string]any{"type": "number"},
			"accuracy": map[string]any{"type": "number"},
			"perTagAccuracy": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "number"},
			},
			"comment": map[string]any{"type": "string"},
			"recommendedTopics": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"tips": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"score", "total", "accuracy", "comment", "recommendedTopics", "tips"},
	},
}
