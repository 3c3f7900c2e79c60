// Package session implements the quiz-taking state machine: one quiz at a
// time, a current-question pointer, collected answers, and a countdown.
package session

import (
	"math"
	"time"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateActive
	StatePaused
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Session holds the state of one quiz run. Not safe for concurrent use;
// the TUI drives it from a single goroutine.
type Session struct {
	quiz    *quiz.Quiz
	index   int
	answers []quiz.Answer

	active  bool
	paused  bool
	results bool

	startTime     time.Time
	endTime       time.Time
	questionStart time.Time
	timeRemaining int // seconds
	score         int

	showExplanation bool

	now func() time.Time
}

// New creates an idle session.
func New() *Session {
	return &Session{now: time.Now}
}

// NewWithClock creates a session with an injected clock.
func NewWithClock(now func() time.Time) *Session {
	return &Session{now: now}
}

// StartQuiz loads a quiz and activates the session. Allowed from idle or
// completed; ignored while a run is active or paused.
func (s *Session) StartQuiz(q *quiz.Quiz) {
	if s.active || s.paused {
		return
	}

	s.quiz = q
	s.index = 0
	s.answers = nil
	s.active = true
	s.paused = false
	s.results = false
	s.score = 0
	s.showExplanation = false
	s.startTime = s.now()
	s.endTime = time.Time{}
	s.questionStart = s.startTime
	s.timeRemaining = q.TimeLimit * 60
}

// PauseQuiz freezes an active session.
func (s *Session) PauseQuiz() {
	if s.active && !s.paused {
		s.paused = true
	}
}

// ResumeQuiz unfreezes a paused session and restarts the question timer.
func (s *Session) ResumeQuiz() {
	if s.active && s.paused {
		s.paused = false
		s.questionStart = s.now()
	}
}

// SubmitAnswer records the learner's selection for a question. Resubmission
// replaces the previous answer: the old one is removed and the new one
// appended, so answer order reflects submission order. No-op unless a quiz
// is loaded and the session is active.
func (s *Session) SubmitAnswer(questionID, selectedOption int) {
	if s.quiz == nil || !s.active {
		return
	}

	q := s.findQuestion(questionID)
	if q == nil {
		return
	}

	timeSpent := int(math.Round(s.now().Sub(s.questionStart).Seconds()))
	if timeSpent < 0 {
		timeSpent = 0
	}

	answer := quiz.Answer{
		QuestionID:     questionID,
		SelectedOption: selectedOption,
		IsCorrect:      selectedOption == q.CorrectAnswer,
		TimeSpent:      timeSpent,
	}

	s.removeAnswer(questionID)
	s.answers = append(s.answers, answer)
	s.score = s.calculateScore()
}

// ClearAnswer removes a recorded answer, if any.
func (s *Session) ClearAnswer(questionID int) {
	if s.quiz == nil || !s.active {
		return
	}
	s.removeAnswer(questionID)
	s.score = s.calculateScore()
}

// NextQuestion advances the pointer. On the last question it ends the quiz.
func (s *Session) NextQuestion() {
	if s.quiz == nil || !s.active {
		return
	}
	if s.index < len(s.quiz.Questions)-1 {
		s.index++
		s.questionStart = s.now()
		s.showExplanation = false
		return
	}
	s.EndQuiz()
}

// PreviousQuestion moves the pointer back one question.
func (s *Session) PreviousQuestion() {
	if s.quiz == nil || !s.active {
		return
	}
	if s.index > 0 {
		s.index--
		s.questionStart = s.now()
		s.showExplanation = false
	}
}

// GoToQuestion jumps to the question at the given index.
func (s *Session) GoToQuestion(i int) {
	if s.quiz == nil || !s.active {
		return
	}
	if i >= 0 && i < len(s.quiz.Questions) {
		s.index = i
		s.questionStart = s.now()
		s.showExplanation = false
	}
}

// EndQuiz completes the run: deactivates the session, stamps the end time,
// and finalizes the score.
func (s *Session) EndQuiz() {
	if s.quiz == nil || !s.active {
		return
	}
	s.active = false
	s.paused = false
	s.results = true
	s.endTime = s.now()
	s.score = s.calculateScore()
}

// ResetQuiz returns the session to idle, dropping all run state.
func (s *Session) ResetQuiz() {
	*s = Session{now: s.now}
}

// UpdateTimeRemaining sets the countdown. Reaching zero while active ends
// the quiz.
func (s *Session) UpdateTimeRemaining(seconds int) {
	s.timeRemaining = seconds
	if seconds <= 0 && s.active {
		s.EndQuiz()
	}
}

// Tick decrements the countdown by one second while active and not paused.
func (s *Session) Tick() {
	if s.active && !s.paused {
		s.UpdateTimeRemaining(s.timeRemaining - 1)
	}
}

// StartQuestionTimer restarts the per-question timer.
func (s *Session) StartQuestionTimer() {
	s.questionStart = s.now()
}

// ToggleExplanation flips the explanation display for the current question.
func (s *Session) ToggleExplanation() {
	s.showExplanation = !s.showExplanation
}

// calculateScore returns round(100 * correct / total), or 0 for a quiz with
// no questions.
func (s *Session) calculateScore() int {
	if s.quiz == nil || len(s.quiz.Questions) == 0 {
		return 0
	}
	correct := 0
	for _, a := range s.answers {
		if a.IsCorrect {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(s.quiz.Questions)) * 100))
}

func (s *Session) findQuestion(id int) *quiz.Question {
	for i := range s.quiz.Questions {
		if s.quiz.Questions[i].ID == id {
			return &s.quiz.Questions[i]
		}
	}
	return nil
}

func (s *Session) removeAnswer(questionID int) {
	for i, a := range s.answers {
		if a.QuestionID == questionID {
			s.answers = append(s.answers[:i], s.answers[i+1:]...)
			return
		}
	}
}
