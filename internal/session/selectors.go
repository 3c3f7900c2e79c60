package session

import (
	"math"
	"time"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// State returns the session lifecycle state.
func (s *Session) State() State {
	switch {
	case s.quiz == nil:
		return StateIdle
	case s.active && s.paused:
		return StatePaused
	case s.active:
		return StateActive
	case s.results:
		return StateCompleted
	}
	return StateIdle
}

// Quiz returns the loaded quiz, nil when idle.
func (s *Session) Quiz() *quiz.Quiz {
	return s.quiz
}

// CurrentQuestion returns the question under the pointer, nil when no quiz
// is loaded.
func (s *Session) CurrentQuestion() *quiz.Question {
	if s.quiz == nil || s.index >= len(s.quiz.Questions) {
		return nil
	}
	return &s.quiz.Questions[s.index]
}

// CurrentIndex returns the zero-based question pointer.
func (s *Session) CurrentIndex() int {
	return s.index
}

// Progress returns round(100 * (index+1) / questionCount), 0 without a quiz.
func (s *Session) Progress() int {
	if s.quiz == nil || len(s.quiz.Questions) == 0 {
		return 0
	}
	return int(math.Round(float64(s.index+1) / float64(len(s.quiz.Questions)) * 100))
}

// Answer returns the recorded answer for a question, if any.
func (s *Session) Answer(questionID int) (quiz.Answer, bool) {
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return quiz.Answer{}, false
}

// Answers returns a copy of the recorded answers in submission order.
func (s *Session) Answers() []quiz.Answer {
	out := make([]quiz.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// AnsweredCount returns how many questions have a recorded answer.
func (s *Session) AnsweredCount() int {
	return len(s.answers)
}

// Score returns the current score, round(100 * correct / total).
func (s *Session) Score() int {
	return s.score
}

// TimeRemaining returns the countdown in seconds.
func (s *Session) TimeRemaining() int {
	return s.timeRemaining
}

// CanNavigate reports whether question navigation is allowed: an active,
// unpaused session.
func (s *Session) CanNavigate() bool {
	return s.active && !s.paused
}

// IsFirstQuestion reports whether the pointer is at the first question.
func (s *Session) IsFirstQuestion() bool {
	return s.index == 0
}

// IsLastQuestion reports whether the pointer is at the last question.
func (s *Session) IsLastQuestion() bool {
	return s.quiz != nil && s.index == len(s.quiz.Questions)-1
}

// ShowExplanation reports whether the explanation is toggled on.
func (s *Session) ShowExplanation() bool {
	return s.showExplanation
}

// Duration returns the elapsed run time: end minus start for a completed
// run, now minus start while active.
func (s *Session) Duration() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	if !s.endTime.IsZero() {
		return s.endTime.Sub(s.startTime)
	}
	return s.now().Sub(s.startTime)
}

// Snapshot is an immutable view of a completed (or in-progress) run used by
// the coordinator to build an attempt record.
type Snapshot struct {
	Quiz      *quiz.Quiz
	Answers   []quiz.Answer
	Score     int
	StartTime time.Time
	EndTime   time.Time
}

// Snapshot captures the current run state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Quiz:      s.quiz,
		Answers:   s.Answers(),
		Score:     s.score,
		StartTime: s.startTime,
		EndTime:   s.endTime,
	}
}
