// Package progress keeps the attempt log and the aggregates derived from
// it: user progress, per-topic progress, streaks, and statistics. All
// aggregates are caches recomputable from the attempts alone.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// PassingScore is the percentage at or above which an attempt counts as
// passed, for streaks and the passing rate.
const PassingScore = 70

// storageKey is the KV key under which the whole progress bundle lives.
const storageKey = "progress"

// KV is the persistence collaborator. *store.Store satisfies it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store holds the attempt log and derived aggregates, persisted as one
// JSON bundle through the KV collaborator.
type Store struct {
	mu sync.Mutex
	kv KV

	attempts []quiz.Attempt
	user     quiz.UserProgress
	topics   []quiz.TopicProgress

	now func() time.Time
}

// bundle is the persisted form.
type bundle struct {
	UserProgress  quiz.UserProgress    `json:"userProgress"`
	Attempts      []quiz.Attempt       `json:"quizAttempts"`
	TopicProgress []quiz.TopicProgress `json:"topicProgress"`
}

// New creates a Store backed by kv. Call Load before use.
func New(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// NewWithClock creates a Store with an injected clock.
func NewWithClock(kv KV, now func() time.Time) *Store {
	return &Store{kv: kv, now: now}
}

// Load reads the persisted bundle. A missing key leaves the store empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.kv.Get(ctx, storageKey)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	if !ok {
		return nil
	}

	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("decode progress: %w", err)
	}

	s.attempts = b.Attempts
	s.user = b.UserProgress
	s.topics = b.TopicProgress
	return nil
}

// SaveAttempt records a completed attempt, recomputes all aggregates, and
// persists the bundle.
func (s *Store) SaveAttempt(ctx context.Context, attempt quiz.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first.
	s.attempts = append([]quiz.Attempt{attempt}, s.attempts...)
	s.recomputeUser()
	s.upsertTopic(attempt)

	return s.persist(ctx)
}

// recomputeUser rebuilds UserProgress from the full attempt log.
func (s *Store) recomputeUser() {
	if len(s.attempts) == 0 {
		s.user = quiz.UserProgress{}
		return
	}

	var (
		totalQuestions int
		correct        int
		scoreSum       int
		timeSum        int
		best           = 0
		worst          = 100
		last           time.Time
	)
	for _, a := range s.attempts {
		totalQuestions += a.TotalQuestions
		correct += correctCount(a)
		scoreSum += a.Percentage
		timeSum += a.TimeSpent
		if a.Percentage > best {
			best = a.Percentage
		}
		if a.Percentage < worst {
			worst = a.Percentage
		}
		if a.CompletedAt.After(last) {
			last = a.CompletedAt
		}
	}

	s.user = quiz.UserProgress{
		TotalQuizzesCompleted:  len(s.attempts),
		TotalQuestionsAnswered: totalQuestions,
		CorrectAnswers:         correct,
		AverageScore:           int(math.Round(float64(scoreSum) / float64(len(s.attempts)))),
		BestScore:              best,
		WorstScore:             worst,
		TotalTimeSpent:         timeSum,
		StreakCount:            s.calculateStreak(),
		LastQuizDate:           last,
	}
}

// correctCount reads the exact correctness flags off the answer records.
// Attempts imported without answer details fall back to reconstructing the
// count from the rounded percentage.
func correctCount(a quiz.Attempt) int {
	if len(a.Answers) == 0 {
		return int(math.Round(float64(a.Percentage) / 100 * float64(a.TotalQuestions)))
	}
	n := 0
	for _, ans := range a.Answers {
		if ans.IsCorrect {
			n++
		}
	}
	return n
}

// calculateStreak walks the attempts newest-first and counts consecutive
// passing attempts. The streak breaks at the first attempt below the
// passing score.
func (s *Store) calculateStreak() int {
	sorted := make([]quiz.Attempt, len(s.attempts))
	copy(sorted, s.attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})

	streak := 0
	for _, a := range sorted {
		if a.Percentage < PassingScore {
			break
		}
		streak++
	}
	return streak
}

// upsertTopic updates the per-topic aggregate for the attempt's topic.
// Attempts without a topic link are skipped.
func (s *Store) upsertTopic(attempt quiz.Attempt) {
	if attempt.TopicID == 0 {
		return
	}

	var scoreSum, timeSum, count, best int
	var last time.Time
	for _, a := range s.attempts {
		if a.TopicID != attempt.TopicID {
			continue
		}
		count++
		scoreSum += a.Percentage
		timeSum += a.TimeSpent
		if a.Percentage > best {
			best = a.Percentage
		}
		if a.CompletedAt.After(last) {
			last = a.CompletedAt
		}
	}

	tp := quiz.TopicProgress{
		TopicID:          attempt.TopicID,
		TopicName:        attempt.TopicName,
		QuizzesCompleted: count,
		AverageScore:     int(math.Round(float64(scoreSum) / float64(count))),
		BestScore:        best,
		TotalTimeSpent:   timeSum,
		LastAttemptDate:  last,
	}

	for i := range s.topics {
		if s.topics[i].TopicID == attempt.TopicID {
			s.topics[i] = tp
			return
		}
	}
	s.topics = append(s.topics, tp)
}

// recomputeTopics rebuilds every per-topic aggregate from the attempt log,
// dropping rows for topics no attempt references. Caller holds mu.
func (s *Store) recomputeTopics() {
	s.topics = nil
	seen := make(map[int]bool)
	// Oldest first so topic ordering follows first appearance.
	for i := len(s.attempts) - 1; i >= 0; i-- {
		a := s.attempts[i]
		if a.TopicID == 0 || seen[a.TopicID] {
			continue
		}
		seen[a.TopicID] = true
		s.upsertTopic(a)
	}
}

// persist writes the bundle through the KV collaborator. Caller holds mu.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(bundle{
		UserProgress:  s.user,
		Attempts:      s.attempts,
		TopicProgress: s.topics,
	})
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.kv.Put(ctx, storageKey, data); err != nil {
		return fmt.Errorf("persist progress: %w", err)
	}
	return nil
}

// UserProgress returns the aggregate over all attempts.
func (s *Store) UserProgress() quiz.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// TopicProgress returns the per-topic aggregates.
func (s *Store) TopicProgress() []quiz.TopicProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]quiz.TopicProgress, len(s.topics))
	copy(out, s.topics)
	return out
}

// Attempts returns all attempts, newest first.
func (s *Store) Attempts() []quiz.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]quiz.Attempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}
