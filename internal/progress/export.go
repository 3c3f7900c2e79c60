package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// exportVersion is the current export format version.
const exportVersion = "1.0"

// ErrUnsupportedVersion indicates an import payload with an unknown
// format version.
type ErrUnsupportedVersion struct {
	Version string
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported progress export version %q (want %s)", e.Version, exportVersion)
}

// Export is the portable progress snapshot format.
type Export struct {
	Version       string               `json:"version"`
	ExportedAt    time.Time            `json:"exportedAt"`
	UserProgress  quiz.UserProgress    `json:"userProgress"`
	Attempts      []quiz.Attempt       `json:"quizAttempts"`
	TopicProgress []quiz.TopicProgress `json:"topicProgress"`
}

// ExportJSON serializes the full progress state.
func (s *Store) ExportJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return json.MarshalIndent(Export{
		Version:       exportVersion,
		ExportedAt:    s.now(),
		UserProgress:  s.user,
		Attempts:      s.attempts,
		TopicProgress: s.topics,
	}, "", "  ")
}

// ImportJSON replaces the progress state with a previously exported
// snapshot. The import is atomic: the payload is fully validated before
// any state changes, so a bad payload leaves everything untouched.
func (s *Store) ImportJSON(ctx context.Context, data []byte) error {
	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return fmt.Errorf("decode import: %w", err)
	}
	if exp.Version != exportVersion {
		return &ErrUnsupportedVersion{Version: exp.Version}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = exp.Attempts

	// Aggregates in the snapshot may predate the current derivation rules
	// or be stale relative to the attempt log, which is authoritative.
	s.recomputeUser()
	s.recomputeTopics()

	return s.persist(ctx)
}

// Reset clears all progress and persists the empty state.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = nil
	s.user = quiz.UserProgress{}
	s.topics = nil

	return s.persist(ctx)
}
