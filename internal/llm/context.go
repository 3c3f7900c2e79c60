package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels for the app's model calls. They end up on the request
// event log and drive the `llm list --purpose` filter.
const (
	PurposeQuizGen = "quiz-gen"
	PurposeReview  = "quiz-review"
)

// WithPurpose tags ctx with a purpose label for the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose label carried by ctx, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
