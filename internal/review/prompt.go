package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert instructor and assessment specialist generating a personalized performance review for a completed quiz.

Calculate the score by comparing user answers to the correct answerIndex in the quiz data. Count only exact matches; an answer of -1 means the question was not answered and counts as incorrect.

Analysis to perform:
- Identify recurring error patterns by topic tags and knowledge gaps from incorrect answers.
- Write constructive, specific feedback (3-6 sentences) with an encouraging tone. Focus on learning patterns, not just the score.
- Prioritize 3-7 study topics based on the mistake patterns, ordered by learning impact.
- Provide 3-7 practical study tips addressing the identified weaknesses.

Return ONLY a valid JSON object with this exact structure:

{
  "score": number,
  "total": number,
  "accuracy": number,
  "perTagAccuracy": { "<tag>": number },
  "comment": string,
  "recommendedTopics": [string],
  "tips": [string]
}

Validation requirements:
- score is an integer between 0 and total.
- total equals the number of quiz questions.
- accuracy equals score/total exactly, as a decimal between 0 and 1.`

// buildUserMessage constructs the reviewer prompt from the quiz payload and
// the learner's answer array.
func buildUserMessage(payloadJSON string, userAnswers []int, language string) string {
	answersJSON, _ := json.Marshal(userAnswers)

	var b strings.Builder
	fmt.Fprintf(&b, "Quiz data: %s\n", payloadJSON)
	fmt.Fprintf(&b, "User answers (-1 = unanswered): %s\n", answersJSON)
	fmt.Fprintf(&b, "Output language: %s\n", language)
	return b.String()
}
