package review

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/quiz"
)

func reviewQuiz(n int) *quiz.Quiz {
	questions := make([]quiz.Question, n)
	for i := range questions {
		questions[i] = quiz.Question{
			ID:            i + 1,
			Question:      "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
			Tags:          []string{"basics"},
		}
	}
	return &quiz.Quiz{
		ID:         "quiz-r",
		Title:      "Review Quiz",
		Difficulty: quiz.Beginner,
		Questions:  questions,
	}
}

// aiReview serializes a review payload the way the AI would return it.
func aiReview(score, total int, accuracy float64) string {
	b, _ := json.Marshal(map[string]any{
		"score":             score,
		"total":             total,
		"accuracy":          accuracy,
		"perTagAccuracy":    map[string]float64{"basics": 0.9},
		"comment":           "Solid effort.",
		"recommendedTopics": []string{"pointers"},
		"tips":              []string{"review the basics"},
	})
	return string(b)
}

func TestReconciliationOverridesWrongScore(t *testing.T) {
	q := reviewQuiz(10)
	// 4 correct answers, 2 wrong, 4 unanswered.
	userAnswers := []int{0, 0, 0, 0, 1, 1, NoAnswer, NoAnswer, NoAnswer, NoAnswer}

	// AI confidently reports 6/10.
	engine := NewEngine(llm.NewMockProvider(llm.MockResponse{Text: aiReview(6, 10, 0.6)}))
	r, err := engine.Generate(context.Background(), q, userAnswers, "en")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if r.Score != 4 || r.Total != 10 {
		t.Errorf("score/total = %d/%d, want 4/10", r.Score, r.Total)
	}
	if r.Accuracy != 0.4 {
		t.Errorf("accuracy = %v, want 0.4", r.Accuracy)
	}
	// Narrative fields pass through untouched.
	if r.Comment != "Solid effort." || len(r.Tips) != 1 {
		t.Errorf("narrative fields modified: %+v", r)
	}
}

func TestReconciliationKeepsMatchingScore(t *testing.T) {
	q := reviewQuiz(4)
	userAnswers := []int{0, 0, 1, 2} // 2 correct

	engine := NewEngine(llm.NewMockProvider(llm.MockResponse{Text: aiReview(2, 4, 0.5)}))
	r, err := engine.Generate(context.Background(), q, userAnswers, "en")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if r.Score != 2 || r.Total != 4 || r.Accuracy != 0.5 {
		t.Errorf("review = %d/%d acc=%v", r.Score, r.Total, r.Accuracy)
	}
}

func TestNoAnswerIsNotOptionZero(t *testing.T) {
	q := reviewQuiz(2) // correct answer is option 0 for every question

	// One question answered with option 0 (correct), one unanswered. The
	// unanswered one must not count as a correct option-0 pick.
	score, total, accuracy := groundTruth(q, []int{0, NoAnswer})
	if score != 1 || total != 2 {
		t.Errorf("score/total = %d/%d, want 1/2", score, total)
	}
	if accuracy != 0.5 {
		t.Errorf("accuracy = %v", accuracy)
	}
}

func TestUserAnswersAlignment(t *testing.T) {
	q := reviewQuiz(3)
	answers := []quiz.Answer{
		{QuestionID: 3, SelectedOption: 2},
		{QuestionID: 1, SelectedOption: 0},
	}

	got := UserAnswers(q, answers)
	want := []int{0, NoAnswer, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("userAnswers[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGenerateSchemaError(t *testing.T) {
	q := reviewQuiz(1)

	cases := map[string]string{
		"no JSON":       "I had trouble reviewing this quiz.",
		"missing field": `{"score": 1, "total": 1, "accuracy": 1.0}`,
		"wrong type":    `{"score": "one", "total": 1, "accuracy": 1.0, "comment": "c", "recommendedTopics": [], "tips": []}`,
	}
	for name, text := range cases {
		engine := NewEngine(llm.NewMockProvider(llm.MockResponse{Text: text}))
		_, err := engine.Generate(context.Background(), q, []int{0}, "en")
		var serr *SchemaError
		if !errors.As(err, &serr) {
			t.Errorf("%s: got %v, want *SchemaError", name, err)
		}
	}
}

func TestZeroQuestionAccuracy(t *testing.T) {
	score, total, accuracy := groundTruth(reviewQuiz(0), nil)
	if score != 0 || total != 0 || accuracy != 0 {
		t.Errorf("ground truth for empty quiz = %d/%d acc=%v", score, total, accuracy)
	}
}

func TestServiceClearsReviewOnFailure(t *testing.T) {
	q := reviewQuiz(1)
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: aiReview(1, 1, 1.0)},
		llm.MockResponse{Text: "garbage"},
	)
	svc := NewService(NewEngine(mock))
	ctx := context.Background()

	if _, err := svc.Generate(ctx, q, []int{0}, q.ID, "en"); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if current, quizID := svc.Current(); current == nil || quizID != q.ID {
		t.Fatal("review not stored after success")
	}

	if _, err := svc.Generate(ctx, q, []int{0}, q.ID, "en"); err == nil {
		t.Fatal("second Generate succeeded on garbage")
	}
	if current, _ := svc.Current(); current != nil {
		t.Error("failed review left stale state behind")
	}
	if svc.Err() == nil {
		t.Error("error not surfaced for display")
	}
}

func TestStrongAndWeakTags(t *testing.T) {
	q := reviewQuiz(1)
	text, _ := json.Marshal(map[string]any{
		"score": 1, "total": 1, "accuracy": 1.0,
		"perTagAccuracy":    map[string]float64{"slices": 0.9, "maps": 0.7, "channels": 0.3},
		"comment":           "ok",
		"recommendedTopics": []string{},
		"tips":              []string{},
	})
	svc := NewService(NewEngine(llm.NewMockProvider(llm.MockResponse{Text: string(text)})))

	if _, err := svc.Generate(context.Background(), q, []int{0}, q.ID, "en"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	strong := svc.StrongTags()
	if len(strong) != 1 || strong[0] != "slices" {
		t.Errorf("strong tags = %v", strong)
	}
	weak := svc.WeakTags()
	if len(weak) != 1 || weak[0] != "channels" {
		t.Errorf("weak tags = %v", weak)
	}
}
