// Package quizgen builds quiz generation requests for the LLM provider and
// parses the returned payload into a validated Quiz.
package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// Settings are the user-supplied inputs for one quiz generation.
type Settings struct {
	Topic        string
	Difficulty   quiz.Difficulty
	NumQuestions int
	Language     string

	// Optional topic link carried onto the generated quiz.
	TopicID   int
	TopicName string
}

// Validate checks the settings before any provider call is made.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	if s.NumQuestions < 1 {
		return fmt.Errorf("question count must be at least 1, got %d", s.NumQuestions)
	}
	if !s.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", s.Difficulty)
	}
	return nil
}

// Generator produces quizzes using an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// generationPayload is the raw AI response after JSON extraction.
type generationPayload struct {
	Meta    quiz.Meta    `json:"meta"`
	Items   []itemOutput `json:"items"`
	Overall quiz.Overall `json:"overall"`
}

type itemOutput struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answerIndex"`
	Explanation string   `json:"explanation"`
	Tags        []string `json:"tags"`
}

// Generate produces a quiz for the given settings. The returned error is a
// *ParseError when no JSON object could be extracted from the AI response
// and a *SchemaError when the payload violates the generation schema or a
// structural constraint.
func (g *Generator) Generate(ctx context.Context, settings Settings) (*quiz.Quiz, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.Language == "" {
		settings.Language = "en"
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)

	req := llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(settings),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	raw, ok := llm.ExtractJSON(resp.Text)
	if !ok {
		return nil, &ParseError{Snippet: snippet(resp.Text)}
	}

	if err := llm.ValidateJSON(GenerationSchema, raw); err != nil {
		return nil, &SchemaError{Reason: "payload does not match generation schema", Err: err}
	}

	var payload generationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &SchemaError{Reason: "payload does not decode", Err: err}
	}

	if err := checkStructure(payload, settings.NumQuestions); err != nil {
		return nil, err
	}

	return buildQuiz(payload, settings), nil
}

// checkStructure enforces the constraints the JSON schema cannot express
// against the requested settings: exact item count, exactly 4 choices, and
// the answer index range.
func checkStructure(p generationPayload, wantCount int) error {
	if len(p.Items) != wantCount {
		return &SchemaError{
			Reason: fmt.Sprintf("expected %d questions, got %d", wantCount, len(p.Items)),
		}
	}
	for i, item := range p.Items {
		if len(item.Choices) != 4 {
			return &SchemaError{
				Reason: fmt.Sprintf("question %d has %d choices, want 4", i+1, len(item.Choices)),
			}
		}
		if item.AnswerIndex < 0 || item.AnswerIndex > 3 {
			return &SchemaError{
				Reason: fmt.Sprintf("question %d answer index %d out of range", i+1, item.AnswerIndex),
			}
		}
	}
	return nil
}

// buildQuiz maps a validated payload into the internal Quiz entity.
// Question ids are assigned by 1-based position, not the AI's string ids.
func buildQuiz(p generationPayload, settings Settings) *quiz.Quiz {
	difficulty := capitalizeDifficulty(p.Meta.Difficulty)
	if !difficulty.Valid() {
		difficulty = settings.Difficulty
	}

	questions := make([]quiz.Question, len(p.Items))
	for i, item := range p.Items {
		questions[i] = quiz.Question{
			ID:            i + 1,
			Question:      item.Question,
			Options:       item.Choices,
			CorrectAnswer: item.AnswerIndex,
			Explanation:   item.Explanation,
			Difficulty:    difficulty,
			Tags:          item.Tags,
		}
	}

	meta := p.Meta
	overall := p.Overall

	return &quiz.Quiz{
		ID:          uuid.NewString(),
		Title:       fmt.Sprintf("%s - %s Quiz", settings.Topic, difficulty),
		Description: overall.Summary,
		Difficulty:  difficulty,
		TimeLimit:   settings.NumQuestions * 2,
		Questions:   questions,
		TopicID:     settings.TopicID,
		TopicName:   settings.TopicName,
		AIGenerated: true,
		Meta:        &meta,
		Overall:     &overall,
	}
}

// capitalizeDifficulty maps the AI's lowercase difficulty to the internal enum.
func capitalizeDifficulty(s string) quiz.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "easy":
		return quiz.Beginner
	case "intermediate", "medium":
		return quiz.Intermediate
	case "advanced", "hard":
		return quiz.Advanced
	}
	return quiz.Difficulty(s)
}

func snippet(s string) string {
	const max = 120
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
