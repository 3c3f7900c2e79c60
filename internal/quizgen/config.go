package quizgen

// Config holds tunables for quiz generation.
type Config struct {
	// MaxTokens is the token budget for a single generation call.
	MaxTokens int

	// Temperature for the LLM call.
	Temperature float64

	// MaxHistory caps how many generated quizzes the service remembers.
	MaxHistory int
}

// DefaultConfig returns the default generation config.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		MaxHistory:  50,
	}
}
