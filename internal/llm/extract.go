package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fenceRe matches a markdown code fence and captures its body. The language
// tag is optional because models fence with ``` as often as ```json.
var fenceRe = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON pulls a single JSON object out of free-form LLM text.
//
// Fallback order:
//  1. the body of the first markdown code fence,
//  2. the span from the first '{' to the last '}',
//  3. the whole text.
//
// The first candidate that parses as a JSON object wins. Returns false when
// no candidate parses.
func ExtractJSON(text string) (json.RawMessage, bool) {
	var candidates []string

	if m := fenceRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}

	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			candidates = append(candidates, text[start:end+1])
		}
	}

	candidates = append(candidates, strings.TrimSpace(text))

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if !strings.HasPrefix(c, "{") {
			continue
		}
		if json.Valid([]byte(c)) {
			return json.RawMessage(c), true
		}
	}

	return nil, false
}
