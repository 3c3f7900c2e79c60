package session

import (
	"testing"
	"time"

	"github.com/abhisek/quizdeck/internal/quiz"
)

func testQuiz(n int) *quiz.Quiz {
	questions := make([]quiz.Question, n)
	for i := range questions {
		questions[i] = quiz.Question{
			ID:            i + 1,
			Question:      "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
			Difficulty:    quiz.Beginner,
		}
	}
	return &quiz.Quiz{
		ID:         "quiz-1",
		Title:      "Test Quiz",
		Difficulty: quiz.Beginner,
		TimeLimit:  n * 2,
		Questions:  questions,
	}
}

// fakeClock returns a clock that advances by step on every call.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestStartQuiz(t *testing.T) {
	s := New()
	q := testQuiz(3)
	s.StartQuiz(q)

	if s.State() != StateActive {
		t.Fatalf("state = %v, want active", s.State())
	}
	if s.TimeRemaining() != q.TimeLimit*60 {
		t.Errorf("timeRemaining = %d, want %d", s.TimeRemaining(), q.TimeLimit*60)
	}
	if s.CurrentIndex() != 0 || s.AnsweredCount() != 0 || s.Score() != 0 {
		t.Error("run state not reset on start")
	}

	// Starting again mid-run is ignored.
	s.SubmitAnswer(1, 1)
	s.StartQuiz(testQuiz(5))
	if s.Quiz().ID != "quiz-1" || s.AnsweredCount() != 1 {
		t.Error("StartQuiz replaced an active run")
	}
}

func TestScoreIsRoundedPercentage(t *testing.T) {
	s := New()
	s.StartQuiz(testQuiz(3))

	s.SubmitAnswer(1, 1) // correct
	s.SubmitAnswer(2, 0) // wrong
	s.SubmitAnswer(3, 1) // correct

	// round(100 * 2/3) = 67
	if s.Score() != 67 {
		t.Errorf("score = %d, want 67", s.Score())
	}
}

func TestResubmissionReplacesAnswer(t *testing.T) {
	s := New()
	s.StartQuiz(testQuiz(2))

	s.SubmitAnswer(1, 0) // wrong
	s.SubmitAnswer(2, 1) // correct
	if s.AnsweredCount() != 2 || s.Score() != 50 {
		t.Fatalf("count=%d score=%d after first pass", s.AnsweredCount(), s.Score())
	}

	// Correcting question 1: count unchanged, old answer replaced, answer
	// moves to the end of the submission order.
	s.SubmitAnswer(1, 1)
	if s.AnsweredCount() != 2 {
		t.Errorf("count = %d after resubmission, want 2", s.AnsweredCount())
	}
	if s.Score() != 100 {
		t.Errorf("score = %d after resubmission, want 100", s.Score())
	}
	answers := s.Answers()
	if answers[len(answers)-1].QuestionID != 1 {
		t.Error("resubmitted answer not moved to end of order")
	}

	a, ok := s.Answer(1)
	if !ok || !a.IsCorrect || a.SelectedOption != 1 {
		t.Errorf("stored answer = %+v", a)
	}
}

func TestSubmitIgnoredWhenInactive(t *testing.T) {
	s := New()
	s.SubmitAnswer(1, 0)
	if s.AnsweredCount() != 0 {
		t.Error("answer recorded with no quiz loaded")
	}

	s.StartQuiz(testQuiz(1))
	s.EndQuiz()
	s.SubmitAnswer(1, 1)
	if s.AnsweredCount() != 0 {
		t.Error("answer recorded after quiz ended")
	}
}

func TestZeroQuestionQuizScoresZero(t *testing.T) {
	s := New()
	s.StartQuiz(testQuiz(0))
	s.EndQuiz()

	if s.Score() != 0 {
		t.Errorf("score = %d, want 0", s.Score())
	}
	if s.State() != StateCompleted {
		t.Errorf("state = %v, want completed", s.State())
	}
}

func TestNextQuestionOnLastEndsQuiz(t *testing.T) {
	s := New()
	s.StartQuiz(testQuiz(2))

	s.NextQuestion()
	if s.CurrentIndex() != 1 || s.State() != StateActive {
		t.Fatalf("index=%d state=%v after first next", s.CurrentIndex(), s.State())
	}

	s.NextQuestion()
	if s.State() != StateCompleted {
		t.Errorf("state = %v after next on last question, want completed", s.State())
	}
}

func TestNavigation(t *testing.T) {
	s := New()
	s.StartQuiz(testQuiz(3))

	s.PreviousQuestion()
	if s.CurrentIndex() != 0 {
		t.Error("previous moved before first question")
	}

	s.GoToQuestion(2)
	if s.CurrentIndex() != 2 || !s.IsLastQuestion() {
		t.Errorf("index = %d after GoToQuestion(2)", s.CurrentIndex())
	}
	s.GoToQuestion(7)
	if s.CurrentIndex() != 2 {
		t.Error("out-of-range jump changed the pointer")
	}

	s.PreviousQuestion()
	if s.CurrentIndex() != 1 {
		t.Errorf("index = %d after previous", s.CurrentIndex())
	}
}

func TestPauseAndResume(t *testing.T) {
	s := New()
	s.StartQuiz(testQuiz(2))

	s.PauseQuiz()
	if s.State() != StatePaused || s.CanNavigate() {
		t.Fatalf("state=%v canNavigate=%v after pause", s.State(), s.CanNavigate())
	}

	// Countdown is frozen while paused.
	before := s.TimeRemaining()
	s.Tick()
	if s.TimeRemaining() != before {
		t.Error("tick decremented countdown while paused")
	}

	s.ResumeQuiz()
	if s.State() != StateActive || !s.CanNavigate() {
		t.Errorf("state=%v after resume", s.State())
	}
	s.Tick()
	if s.TimeRemaining() != before-1 {
		t.Error("tick did not decrement after resume")
	}
}

func TestTimerExpiryEndsQuiz(t *testing.T) {
	s := New()
	s.StartQuiz(testQuiz(1))
	s.SubmitAnswer(1, 1)

	s.UpdateTimeRemaining(0)
	if s.State() != StateCompleted {
		t.Fatalf("state = %v after countdown hit zero", s.State())
	}
	if s.Score() != 100 {
		t.Errorf("score = %d, want 100", s.Score())
	}
}

func TestClearAnswer(t *testing.T) {
	s := New()
	s.StartQuiz(testQuiz(2))

	s.SubmitAnswer(1, 1)
	s.ClearAnswer(1)
	if s.AnsweredCount() != 0 || s.Score() != 0 {
		t.Errorf("count=%d score=%d after clear", s.AnsweredCount(), s.Score())
	}

	s.ClearAnswer(9) // unknown id is a no-op
}

func TestAnswerTimeSpent(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewWithClock(fakeClock(start, 5*time.Second))

	s.StartQuiz(testQuiz(1))
	s.SubmitAnswer(1, 1)

	a, _ := s.Answer(1)
	if a.TimeSpent != 5 {
		t.Errorf("timeSpent = %d, want 5", a.TimeSpent)
	}
}

func TestResetQuiz(t *testing.T) {
	s := New()
	s.StartQuiz(testQuiz(2))
	s.SubmitAnswer(1, 1)
	s.ResetQuiz()

	if s.State() != StateIdle || s.Quiz() != nil || s.AnsweredCount() != 0 {
		t.Error("reset did not return session to idle")
	}
}

func TestProgress(t *testing.T) {
	s := New()
	if s.Progress() != 0 {
		t.Error("progress nonzero with no quiz")
	}

	s.StartQuiz(testQuiz(3))
	if s.Progress() != 33 {
		t.Errorf("progress = %d on first question, want 33", s.Progress())
	}
	s.NextQuestion()
	s.NextQuestion()
	if s.Progress() != 100 {
		t.Errorf("progress = %d on last question, want 100", s.Progress())
	}
}
