package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// validPayload builds a well-formed generation payload with n questions.
func validPayload(n int) string {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{
			"id":          fmt.Sprintf("q-%d", i+1),
			"question":    fmt.Sprintf("Question %d?", i+1),
			"choices":     []string{"A", "B", "C", "D"},
			"answerIndex": i % 4,
			"explanation": "Because.",
			"tags":        []string{"basics"},
		}
	}
	payload := map[string]any{
		"meta": map[string]any{
			"topic":        "Go",
			"difficulty":   "beginner",
			"language":     "en",
			"numQuestions": n,
		},
		"items": items,
		"overall": map[string]any{
			"summary":         "Covers the basics.",
			"strengths":       []string{"syntax"},
			"weaknesses":      []string{"concurrency"},
			"suggestedTopics": []string{"goroutines", "channels", "interfaces"},
			"studyTips":       []string{"practice daily"},
			"estimatedLevel":  "beginner",
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func testSettings(n int) Settings {
	return Settings{
		Topic:        "Go",
		Difficulty:   quiz.Beginner,
		NumQuestions: n,
		Language:     "en",
	}
}

func newTestGenerator(responses ...llm.MockResponse) *Generator {
	return New(llm.NewMockProvider(responses...), DefaultConfig())
}

func TestGenerateMapsPayloadToQuiz(t *testing.T) {
	g := newTestGenerator(llm.MockResponse{Text: validPayload(3)})

	q, err := g.Generate(context.Background(), testSettings(3))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if q.ID == "" {
		t.Error("quiz ID not assigned")
	}
	if q.Title != "Go - Beginner Quiz" {
		t.Errorf("title = %q", q.Title)
	}
	if q.Description != "Covers the basics." {
		t.Errorf("description = %q", q.Description)
	}
	if q.TimeLimit != 6 {
		t.Errorf("timeLimit = %d, want 6 (3 questions x 2 min)", q.TimeLimit)
	}
	if q.Difficulty != quiz.Beginner {
		t.Errorf("difficulty = %q", q.Difficulty)
	}
	if !q.AIGenerated || q.Meta == nil || q.Overall == nil {
		t.Error("AI provenance not carried onto quiz")
	}

	// Question ids are 1-based sequence positions, not the AI's string ids.
	for i, question := range q.Questions {
		if question.ID != i+1 {
			t.Errorf("question %d has id %d", i, question.ID)
		}
	}
}

func TestGenerateAcceptsFencedJSON(t *testing.T) {
	text := "Here is your quiz:\n```json\n" + validPayload(2) + "\n```\nEnjoy!"
	g := newTestGenerator(llm.MockResponse{Text: text})

	q, err := g.Generate(context.Background(), testSettings(2))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(q.Questions) != 2 {
		t.Errorf("got %d questions, want 2", len(q.Questions))
	}
}

func TestGenerateParseError(t *testing.T) {
	g := newTestGenerator(llm.MockResponse{Text: "I cannot produce a quiz right now, sorry."})

	_, err := g.Generate(context.Background(), testSettings(2))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
}

func TestGenerateItemCountMismatch(t *testing.T) {
	// Asked for 5, AI returned 3.
	g := newTestGenerator(llm.MockResponse{Text: validPayload(3)})

	_, err := g.Generate(context.Background(), testSettings(5))
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want *SchemaError", err)
	}
	if !strings.Contains(serr.Reason, "expected 5") {
		t.Errorf("reason = %q", serr.Reason)
	}
}

func TestGenerateAnswerIndexOutOfRange(t *testing.T) {
	text := validPayload(1)
	text = strings.Replace(text, `"answerIndex":0`, `"answerIndex":4`, 1)
	g := newTestGenerator(llm.MockResponse{Text: text})

	_, err := g.Generate(context.Background(), testSettings(1))
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want *SchemaError", err)
	}
}

func TestGenerateWrongChoiceCount(t *testing.T) {
	text := strings.Replace(validPayload(1), `["A","B","C","D"]`, `["A","B","C"]`, 1)
	g := newTestGenerator(llm.MockResponse{Text: text})

	_, err := g.Generate(context.Background(), testSettings(1))
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want *SchemaError", err)
	}
}

func TestGenerateRejectsBadSettings(t *testing.T) {
	g := newTestGenerator()

	cases := []Settings{
		{Topic: "Go", Difficulty: quiz.Beginner, NumQuestions: 0},
		{Topic: "Go", Difficulty: "impossible", NumQuestions: 3},
		{Topic: "   ", Difficulty: quiz.Beginner, NumQuestions: 3},
	}
	for _, s := range cases {
		if _, err := g.Generate(context.Background(), s); err == nil {
			t.Errorf("settings %+v accepted, want error", s)
		}
	}
}

func TestServiceRejectsConcurrentGeneration(t *testing.T) {
	svc := NewService(newTestGenerator(llm.MockResponse{Text: validPayload(1)}))

	svc.mu.Lock()
	svc.generating = true
	svc.mu.Unlock()

	_, err := svc.Generate(context.Background(), testSettings(1))
	if !errors.Is(err, ErrGenerationInFlight) {
		t.Fatalf("got %v, want ErrGenerationInFlight", err)
	}
}

func TestServiceHistoryCap(t *testing.T) {
	mock := llm.NewMockProvider()
	cfg := DefaultConfig()
	cfg.MaxHistory = 3
	svc := NewService(New(mock, cfg))

	for i := 0; i < 5; i++ {
		mock.AddResponse(llm.MockResponse{Text: validPayload(1)})
		if _, err := svc.Generate(context.Background(), testSettings(1)); err != nil {
			t.Fatalf("Generate %d: %v", i, err)
		}
	}

	if got := len(svc.History()); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestServiceDefaultSettings(t *testing.T) {
	svc := NewService(newTestGenerator())

	got := svc.DefaultSettings()
	if got.NumQuestions != 5 || got.Difficulty != quiz.Beginner || got.Language != "en" {
		t.Errorf("initial defaults = %+v", got)
	}

	svc.SetDefaultSettings(Settings{Topic: "Channels", Difficulty: quiz.Advanced, NumQuestions: 8, Language: "de"})
	got = svc.DefaultSettings()
	if got.NumQuestions != 8 || got.Difficulty != quiz.Advanced || got.Language != "de" {
		t.Errorf("updated defaults = %+v", got)
	}
}
