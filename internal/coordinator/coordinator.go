// Package coordinator sequences the quiz flow across the session, progress,
// generation, and review services. It holds no business logic of its own
// beyond ordering the calls and a last-action audit trail.
package coordinator

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizdeck/internal/progress"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/quizgen"
	"github.com/abhisek/quizdeck/internal/review"
	"github.com/abhisek/quizdeck/internal/session"
)

// Coordinator wires the per-concern services into one quiz flow.
type Coordinator struct {
	session   *session.Session
	progress  *progress.Store
	generator *quizgen.Service
	reviews   *review.Service

	mu           sync.Mutex
	currentQuiz  string
	lastAction   string
	lastActionAt time.Time

	now func() time.Time
}

// New creates a Coordinator over the given services.
func New(sess *session.Session, prog *progress.Store, gen *quizgen.Service, rev *review.Service) *Coordinator {
	return &Coordinator{
		session:   sess,
		progress:  prog,
		generator: gen,
		reviews:   rev,
		now:       time.Now,
	}
}

func (c *Coordinator) recordAction(action string) {
	c.mu.Lock()
	c.lastAction = action
	c.lastActionAt = c.now()
	c.mu.Unlock()
}

// LastAction returns the audit trail: the most recent flow action and when
// it happened.
func (c *Coordinator) LastAction() (string, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAction, c.lastActionAt
}

// StartQuizFlow loads a quiz into the session and starts the run.
func (c *Coordinator) StartQuizFlow(q *quiz.Quiz) error {
	if q == nil {
		return fmt.Errorf("no quiz to start")
	}

	c.session.StartQuiz(q)

	c.mu.Lock()
	c.currentQuiz = q.ID
	c.mu.Unlock()
	c.recordAction("start_quiz")
	return nil
}

// EndQuizFlow ends the current run without saving an attempt. The terminal
// session state stays readable until the next reset.
func (c *Coordinator) EndQuizFlow() error {
	if c.session.Quiz() == nil {
		return fmt.Errorf("no quiz session to end")
	}
	c.session.EndQuiz()
	c.recordAction("end_quiz")
	return nil
}

// FinishQuizSession ends the current run and builds the attempt record
// from the terminal session state. The session is not safe for concurrent
// use, so this must run on the same goroutine that drives it; persist the
// returned attempt with SaveAttempt, which is free of session access and
// may run in the background.
func (c *Coordinator) FinishQuizSession() (quiz.Attempt, error) {
	snap := c.session.Snapshot()
	if snap.Quiz == nil {
		return quiz.Attempt{}, fmt.Errorf("no quiz session to complete")
	}

	c.session.EndQuiz()
	snap = c.session.Snapshot()

	return buildAttempt(snap, uuid.NewString()), nil
}

// SaveAttempt persists an attempt built by FinishQuizSession. Touches only
// the progress store.
func (c *Coordinator) SaveAttempt(ctx context.Context, attempt quiz.Attempt) error {
	if err := c.progress.SaveAttempt(ctx, attempt); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	c.recordAction("complete_quiz")
	return nil
}

// CompleteQuizSession ends the current run and saves the attempt in one
// step, for callers that own the session goroutine throughout.
func (c *Coordinator) CompleteQuizSession(ctx context.Context) (quiz.Attempt, error) {
	attempt, err := c.FinishQuizSession()
	if err != nil {
		return quiz.Attempt{}, err
	}
	if err := c.SaveAttempt(ctx, attempt); err != nil {
		return quiz.Attempt{}, err
	}
	return attempt, nil
}

// buildAttempt maps a terminal session snapshot into an attempt record.
// The session's final score is the attempt's percentage.
func buildAttempt(snap session.Snapshot, id string) quiz.Attempt {
	timeSpent := 0
	if !snap.StartTime.IsZero() && !snap.EndTime.IsZero() {
		timeSpent = int(math.Round(snap.EndTime.Sub(snap.StartTime).Seconds()))
	}

	return quiz.Attempt{
		ID:             id,
		QuizID:         snap.Quiz.ID,
		Score:          snap.Score,
		Percentage:     snap.Score,
		CompletedAt:    snap.EndTime,
		TimeSpent:      timeSpent,
		Answers:        snap.Answers,
		TotalQuestions: len(snap.Quiz.Questions),
		TopicID:        snap.Quiz.TopicID,
		TopicName:      snap.Quiz.TopicName,
		Difficulty:     snap.Quiz.Difficulty,
	}
}

// GenerateReview runs the review flow over an already-captured quiz and
// answer set. It never touches the session, so it may run in the
// background while the session moves on.
func (c *Coordinator) GenerateReview(ctx context.Context, q *quiz.Quiz, answers []quiz.Answer, language string) (*quiz.Review, error) {
	if q == nil {
		return nil, fmt.Errorf("no quiz to review")
	}

	userAnswers := review.UserAnswers(q, answers)
	r, err := c.reviews.Generate(ctx, q, userAnswers, q.ID, language)
	if err != nil {
		return nil, err
	}

	c.recordAction("generate_review")
	return r, nil
}

// GenerateReviewForSession snapshots the current session and reviews it.
// Must run on the session's goroutine.
func (c *Coordinator) GenerateReviewForSession(ctx context.Context, language string) (*quiz.Review, error) {
	snap := c.session.Snapshot()
	if snap.Quiz == nil {
		return nil, fmt.Errorf("no quiz session to review")
	}
	return c.GenerateReview(ctx, snap.Quiz, snap.Answers, language)
}

// ResetAllStores returns the session, generation, and review state to idle.
// The progress store is untouched.
func (c *Coordinator) ResetAllStores() {
	c.session.ResetQuiz()
	c.generator.ClearError()
	c.reviews.Clear()
	c.reviews.ClearError()

	c.mu.Lock()
	c.currentQuiz = ""
	c.mu.Unlock()
	c.recordAction("reset_all")
}

// CurrentQuizID returns the id of the quiz in the current flow, if any.
func (c *Coordinator) CurrentQuizID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentQuiz
}
