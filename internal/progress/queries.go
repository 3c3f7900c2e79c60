package progress

import (
	"math"
	"time"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// AttemptsForQuiz returns the attempts at one quiz, newest first.
func (s *Store) AttemptsForQuiz(quizID string) []quiz.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []quiz.Attempt
	for _, a := range s.attempts {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out
}

// AttemptsByTopic returns the attempts linked to one topic, newest first.
func (s *Store) AttemptsByTopic(topicID int) []quiz.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []quiz.Attempt
	for _, a := range s.attempts {
		if a.TopicID == topicID {
			out = append(out, a)
		}
	}
	return out
}

// RecentAttempts returns the n most recent attempts. n <= 0 defaults to 10.
func (s *Store) RecentAttempts(n int) []quiz.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		n = 10
	}
	if n > len(s.attempts) {
		n = len(s.attempts)
	}
	out := make([]quiz.Attempt, n)
	copy(out, s.attempts[:n])
	return out
}

// ProgressByDifficulty returns the average score per difficulty level.
func (s *Store) ProgressByDifficulty() map[quiz.Difficulty]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[quiz.Difficulty]int)
	counts := make(map[quiz.Difficulty]int)
	for _, a := range s.attempts {
		if a.Difficulty == "" {
			continue
		}
		sums[a.Difficulty] += a.Percentage
		counts[a.Difficulty]++
	}

	out := make(map[quiz.Difficulty]int, len(sums))
	for d, sum := range sums {
		out[d] = int(math.Round(float64(sum) / float64(counts[d])))
	}
	return out
}

// Statistics summarizes the attempt log.
func (s *Store) Statistics() quiz.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.attempts) == 0 {
		return quiz.Statistics{}
	}

	var scoreSum, timeSum, best, passed int
	for _, a := range s.attempts {
		scoreSum += a.Percentage
		timeSum += a.TimeSpent
		if a.Percentage > best {
			best = a.Percentage
		}
		if a.Percentage >= PassingScore {
			passed++
		}
	}

	n := len(s.attempts)
	return quiz.Statistics{
		TotalAttempts:    n,
		AverageScore:     int(math.Round(float64(scoreSum) / float64(n))),
		BestScore:        best,
		AverageTimeSpent: int(math.Round(float64(timeSum) / float64(n))),
		PassingRate:      int(math.Round(float64(passed) / float64(n) * 100)),
	}
}

// Achievements returns the milestones unlocked by the current progress.
func (s *Store) Achievements() []quiz.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlockedAt := s.user.LastQuizDate
	if unlockedAt.IsZero() {
		unlockedAt = time.Time{}
	}

	var out []quiz.Achievement
	add := func(typ, title, desc string) {
		out = append(out, quiz.Achievement{
			Type:        typ,
			Title:       title,
			Description: desc,
			UnlockedAt:  unlockedAt,
		})
	}

	if s.user.TotalQuizzesCompleted >= 1 {
		add("first_quiz", "First Steps", "Completed your first quiz")
	}
	if s.user.TotalQuizzesCompleted >= 10 {
		add("quiz_10", "Dedicated Learner", "Completed 10 quizzes")
	}
	if s.user.BestScore >= 100 {
		add("perfect_score", "Perfectionist", "Scored 100% on a quiz")
	}
	if s.user.StreakCount >= 5 {
		add("streak_5", "On a Roll", "Passed 5 quizzes in a row")
	}
	if s.user.StreakCount >= 10 {
		add("streak_10", "Unstoppable", "Passed 10 quizzes in a row")
	}
	return out
}
