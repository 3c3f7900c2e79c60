package quizgen

import (
	"errors"
	"fmt"
)

// ErrGenerationInFlight is returned when a generation is requested while
// another is still running.
var ErrGenerationInFlight = errors.New("quiz generation already in progress")

// ParseError indicates the AI response contained no parsable JSON object.
type ParseError struct {
	// Snippet is a short prefix of the offending response for diagnostics.
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no JSON object found in AI response: %q", e.Snippet)
}

// SchemaError indicates the AI payload parsed as JSON but violated the
// generation schema or a structural constraint (item count, choice count,
// answer index range).
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generated quiz failed validation: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generated quiz failed validation: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
