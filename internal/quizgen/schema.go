package quizgen

import "github.com/abhisek/quizdeck/internal/llm"

// GenerationSchema defines the JSON schema for AI quiz generation payloads.
var GenerationSchema = &llm.Schema{
	Name:        "generated-quiz",
	Description: "A complete multiple-choice quiz with metadata and an overall summary",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"meta": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic":        map[string]any{"type": "string"},
					"difficulty":   map[string]any{"type": "string"},
					"language":     map[string]any{"type": "string"},
					"numQuestions": map[string]any{"type": "integer"},
				},
				"required": []any{"topic", "difficulty", "language", "numQuestions"},
			},
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"question": map[string]any{"type": "string"},
						"choices": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"answerIndex": map[string]any{"type": "integer"},
						"explanation": map[string]any{"type": "string"},
						"tags": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []any{"question", "choices", "answerIndex", "explanation"},
				},
			},
			"overall": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"summary":         map[string]any{"type": "string"},
					"strengths":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"weaknesses":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"suggestedTopics": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"studyTips":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"estimatedLevel":  map[string]any{"type": "string"},
				},
				"required": []any{"summary"},
			},
		},
		"required": []any{"meta", "items", "overall"},
	},
}
