package quizgen

import (
	"context"
	"sync"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// Service wraps a Generator with an in-flight guard, a last-error slot, and
// a bounded history of generated quizzes.
type Service struct {
	gen *Generator

	mu         sync.Mutex
	generating bool
	history    []*quiz.Quiz
	lastErr    error
	maxHistory int
	defaults   Settings
}

// NewService creates a Service around the given generator.
func NewService(gen *Generator) *Service {
	max := gen.config.MaxHistory
	if max <= 0 {
		max = DefaultConfig().MaxHistory
	}
	return &Service{
		gen:        gen,
		maxHistory: max,
		defaults: Settings{
			Difficulty:   quiz.Beginner,
			NumQuestions: 5,
			Language:     "en",
		},
	}
}

// DefaultSettings returns the settings used to pre-fill a new generation.
func (s *Service) DefaultSettings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaults
}

// SetDefaultSettings remembers the given settings as the pre-fill for the
// next generation.
func (s *Service) SetDefaultSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = settings
}

// Generate runs one quiz generation. Concurrent generations are rejected
// with ErrGenerationInFlight; the running one is unaffected.
func (s *Service) Generate(ctx context.Context, settings Settings) (*quiz.Quiz, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	s.generating = true
	s.lastErr = nil
	s.mu.Unlock()

	q, err := s.gen.Generate(ctx, settings)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if err != nil {
		s.lastErr = err
		return nil, err
	}

	// Newest first, capped.
	s.history = append([]*quiz.Quiz{q}, s.history...)
	if len(s.history) > s.maxHistory {
		s.history = s.history[:s.maxHistory]
	}
	return q, nil
}

// IsGenerating reports whether a generation is currently running.
func (s *Service) IsGenerating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// History returns the generated quizzes, newest first.
func (s *Service) History() []*quiz.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*quiz.Quiz, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory drops all remembered quizzes.
func (s *Service) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// Err returns the error from the most recent failed generation, or nil.
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
