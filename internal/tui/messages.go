package tui

import (
	"time"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// quizReadyMsg is sent when quiz generation finishes.
type quizReadyMsg struct {
	Quiz *quiz.Quiz
	Err  error
}

// reviewReadyMsg is sent when the AI review finishes.
type reviewReadyMsg struct {
	Review *quiz.Review
	Err    error
}

// attemptSavedMsg is sent when the completed attempt has been persisted.
type attemptSavedMsg struct {
	Attempt quiz.Attempt
	Err     error
}

// timerTickMsg is sent every second to drive the countdown.
type timerTickMsg time.Time

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time
