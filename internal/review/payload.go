package review

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// NoAnswer marks an unanswered question in a user-answer array. Distinct
// from option index 0.
const NoAnswer = -1

// payloadItem is one question as serialized for the reviewer, including
// the answer key.
type payloadItem struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answerIndex"`
	Explanation string   `json:"explanation,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type payload struct {
	Meta  payloadMeta   `json:"meta"`
	Items []payloadItem `json:"items"`
}

type payloadMeta struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"numQuestions"`
}

// buildPayloadJSON serializes the quiz's question bank and answer key for
// the reviewer prompt.
func buildPayloadJSON(q *quiz.Quiz) (string, error) {
	items := make([]payloadItem, len(q.Questions))
	for i, question := range q.Questions {
		items[i] = payloadItem{
			ID:          question.ID,
			Question:    question.Question,
			Choices:     question.Options,
			AnswerIndex: question.CorrectAnswer,
			Explanation: question.Explanation,
			Tags:        question.Tags,
		}
	}

	topic := q.TopicName
	if topic == "" {
		topic = q.Title
	}

	b, err := json.Marshal(payload{
		Meta: payloadMeta{
			Topic:        topic,
			Difficulty:   string(q.Difficulty),
			NumQuestions: len(q.Questions),
		},
		Items: items,
	})
	if err != nil {
		return "", fmt.Errorf("encode review payload: %w", err)
	}
	return string(b), nil
}

// UserAnswers builds the fixed-length answer array for a quiz from the
// session's recorded answers, aligned by question id. Unanswered questions
// get the NoAnswer marker.
func UserAnswers(q *quiz.Quiz, answers []quiz.Answer) []int {
	byID := make(map[int]int, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a.SelectedOption
	}

	out := make([]int, len(q.Questions))
	for i, question := range q.Questions {
		if selected, ok := byID[question.ID]; ok {
			out[i] = selected
		} else {
			out[i] = NoAnswer
		}
	}
	return out
}

// groundTruth computes the locally authoritative score for an answer array.
func groundTruth(q *quiz.Quiz, userAnswers []int) (score, total int, accuracy float64) {
	total = len(q.Questions)
	for i, question := range q.Questions {
		if i >= len(userAnswers) {
			break
		}
		if userAnswers[i] != NoAnswer && userAnswers[i] == question.CorrectAnswer {
			score++
		}
	}
	if total > 0 {
		accuracy = float64(score) / float64(total)
	}
	return score, total, accuracy
}
