// Package review generates AI performance reviews for completed quizzes and
// reconciles the AI-reported score against the locally computed ground truth.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// Engine builds review prompts and reconciles responses.
type Engine struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
}

// NewEngine creates an Engine with the given provider.
func NewEngine(provider llm.Provider) *Engine {
	return &Engine{
		provider:    provider,
		maxTokens:   2048,
		temperature: 0.4,
	}
}

// reviewOutput is the raw AI response after JSON extraction. Score, total,
// and accuracy decode as float64 since the AI reports bare numbers.
type reviewOutput struct {
	Score             float64            `json:"score"`
	Total             float64            `json:"total"`
	Accuracy          float64            `json:"accuracy"`
	PerTagAccuracy    map[string]float64 `json:"perTagAccuracy"`
	Comment           string             `json:"comment"`
	RecommendedTopics []string           `json:"recommendedTopics"`
	Tips              []string           `json:"tips"`
}

// Generate produces a review for the given quiz and answer array. The
// userAnswers slice must be aligned with the quiz's question order; use
// UserAnswers to build it. Whatever the AI reports, the returned review's
// score, total, and accuracy always match the local answer key.
func (e *Engine) Generate(ctx context.Context, q *quiz.Quiz, userAnswers []int, language string) (*quiz.Review, error) {
	if language == "" {
		language = "en"
	}

	payloadJSON, err := buildPayloadJSON(q)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeReview)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(payloadJSON, userAnswers, language),
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM review failed: %w", err)
	}

	raw, ok := llm.ExtractJSON(resp.Text)
	if !ok {
		return nil, &SchemaError{Reason: "no JSON object found in AI response"}
	}

	if err := llm.ValidateJSON(ReviewSchema, raw); err != nil {
		return nil, &SchemaError{Reason: "payload does not match review schema", Err: err}
	}

	var out reviewOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &SchemaError{Reason: "payload does not decode", Err: err}
	}

	return reconcile(q, userAnswers, out), nil
}

// reconcile overwrites the AI-reported score, total, and accuracy with the
// local ground truth whenever they disagree. The answer key is locally
// known and authoritative; a mismatch is silently corrected, not an error.
func reconcile(q *quiz.Quiz, userAnswers []int, out reviewOutput) *quiz.Review {
	expectedScore, expectedTotal, expectedAccuracy := groundTruth(q, userAnswers)

	r := &quiz.Review{
		Score:             int(out.Score),
		Total:             int(out.Total),
		Accuracy:          out.Accuracy,
		PerTagAccuracy:    out.PerTagAccuracy,
		Comment:           out.Comment,
		RecommendedTopics: out.RecommendedTopics,
		Tips:              out.Tips,
	}

	if r.Score != expectedScore || r.Total != expectedTotal {
		r.Score = expectedScore
		r.Total = expectedTotal
		r.Accuracy = expectedAccuracy
	}
	return r
}

// Service wraps an Engine with review state: an in-flight guard, the
// current review, and a last-error slot for display.
type Service struct {
	engine *Engine

	mu          sync.Mutex
	generating  bool
	current     *quiz.Review
	quizID      string
	generatedAt time.Time
	lastErr     error

	now func() time.Time
}

// NewService creates a Service around the given engine.
func NewService(engine *Engine) *Service {
	return &Service{engine: engine, now: time.Now}
}

// Generate runs one review. Concurrent reviews are rejected with
// ErrReviewInFlight. On failure the current review is cleared and the error
// kept for display.
func (s *Service) Generate(ctx context.Context, q *quiz.Quiz, userAnswers []int, quizID, language string) (*quiz.Review, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return nil, ErrReviewInFlight
	}
	s.generating = true
	s.lastErr = nil
	s.mu.Unlock()

	r, err := s.engine.Generate(ctx, q, userAnswers, language)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if err != nil {
		s.current = nil
		s.quizID = ""
		s.lastErr = err
		return nil, err
	}

	s.current = r
	s.quizID = quizID
	s.generatedAt = s.now()
	return r, nil
}

// Current returns the most recent review and the quiz it belongs to.
func (s *Service) Current() (*quiz.Review, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.quizID
}

// GeneratedAt returns when the current review was produced.
func (s *Service) GeneratedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generatedAt
}

// IsGenerating reports whether a review is currently running.
func (s *Service) IsGenerating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// Err returns the error from the most recent failed review, or nil.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError resets the last-error slot.
func (s *Service) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Clear drops the current review.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.quizID = ""
	s.generatedAt = time.Time{}
}

// Tag accuracy thresholds for strengths and weaknesses.
const (
	strongTagThreshold = 0.8
	weakTagThreshold   = 0.6
)

// StrongTags returns tags with accuracy at or above the strong threshold.
func (s *Service) StrongTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	var out []string
	for tag, acc := range s.current.PerTagAccuracy {
		if acc >= strongTagThreshold {
			out = append(out, tag)
		}
	}
	return out
}

// WeakTags returns tags with accuracy below the weak threshold.
func (s *Service) WeakTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	var out []string
	for tag, acc := range s.current.PerTagAccuracy {
		if acc < weakTagThreshold {
			out = append(out, tag)
		}
	}
	return out
}
