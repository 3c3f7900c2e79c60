package review

import (
	"errors"
	"fmt"
)

// ErrReviewInFlight is returned when a review is requested while another is
// still running.
var ErrReviewInFlight = errors.New("review generation already in progress")

// SchemaError indicates the AI review response was missing required fields,
// had wrong types, or contained no JSON object at all. Not recoverable by
// reconciliation, which only corrects score values, never shape.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("review failed validation: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("review failed validation: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
