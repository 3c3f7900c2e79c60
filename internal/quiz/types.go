// Package quiz holds the core domain types shared across the generation,
// session, progress, and review packages.
package quiz

import "time"

// Difficulty is the quiz difficulty level.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Question is a single multiple-choice question. Questions are immutable
// once the owning Quiz is built.
type Question struct {
	// ID is the 1-based position of the question within its quiz.
	ID            int        `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`       // exactly 4
	CorrectAnswer int        `json:"correctAnswer"` // index into Options, 0-3
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
	Tags          []string   `json:"tags,omitempty"`
}

// Meta is the generation metadata reported by the AI alongside a quiz.
type Meta struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	Language     string `json:"language"`
	NumQuestions int    `json:"numQuestions"`
}

// Overall is the AI's whole-quiz summary returned at generation time.
type Overall struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	SuggestedTopics []string `json:"suggestedTopics"`
	StudyTips       []string `json:"studyTips"`
	EstimatedLevel  string   `json:"estimatedLevel"`
}

// Quiz is a fixed ordered set of multiple-choice questions with a
// difficulty and a time allotment.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	TimeLimit   int        `json:"timeLimit"` // minutes
	Questions   []Question `json:"questions"`

	// TopicID links the quiz to a learning topic. Zero means unlinked.
	TopicID   int    `json:"topicId,omitempty"`
	TopicName string `json:"topicName,omitempty"`

	// AI provenance. Nil for hand-authored quizzes.
	AIGenerated bool     `json:"aiGenerated,omitempty"`
	Meta        *Meta    `json:"aiMeta,omitempty"`
	Overall     *Overall `json:"aiOverall,omitempty"`
}

// Answer records the learner's selection for one question. IsCorrect is
// derived at submission time by comparing against the question's correct
// index and never recomputed afterwards.
type Answer struct {
	QuestionID     int  `json:"questionId"`
	SelectedOption int  `json:"selectedOption"` // 0-3
	IsCorrect      bool `json:"isCorrect"`
	TimeSpent      int  `json:"timeSpent"` // seconds, >= 0
}

// Attempt is the immutable historical record of one completed session.
type Attempt struct {
	ID             string     `json:"id"`
	QuizID         string     `json:"quizId"`
	Score          int        `json:"score"`
	Percentage     int        `json:"percentage"`
	CompletedAt    time.Time  `json:"completedAt"`
	TimeSpent      int        `json:"timeSpent"` // seconds
	Answers        []Answer   `json:"answers"`
	TotalQuestions int        `json:"totalQuestions"`
	TopicID        int        `json:"topicId,omitempty"`
	TopicName      string     `json:"topicName,omitempty"`
	Difficulty     Difficulty `json:"difficulty,omitempty"`
}

// Review is an AI-written performance review. Score, Total, and Accuracy
// are always the locally computed ground truth (see the review package);
// the remaining fields are taken from the AI response as-is.
type Review struct {
	Score             int                `json:"score"`
	Total             int                `json:"total"`
	Accuracy          float64            `json:"accuracy"` // Score/Total, in [0,1]
	PerTagAccuracy    map[string]float64 `json:"perTagAccuracy,omitempty"`
	Comment           string             `json:"comment"`
	RecommendedTopics []string           `json:"recommendedTopics"`
	Tips              []string           `json:"tips"`
}

// UserProgress aggregates the full attempt log. It is a cache: always
// recomputable from the attempts alone.
type UserProgress struct {
	TotalQuizzesCompleted  int       `json:"totalQuizzesCompleted"`
	TotalQuestionsAnswered int       `json:"totalQuestionsAnswered"`
	CorrectAnswers         int       `json:"correctAnswers"`
	AverageScore           int       `json:"averageScore"`
	BestScore              int       `json:"bestScore"`
	WorstScore             int       `json:"worstScore"`
	TotalTimeSpent         int       `json:"totalTimeSpent"` // seconds
	StreakCount            int       `json:"streakCount"`
	LastQuizDate           time.Time `json:"lastQuizDate"` // zero when no attempts
}

// TopicProgress aggregates attempts linked to one learning topic.
type TopicProgress struct {
	TopicID          int       `json:"topicId"`
	TopicName        string    `json:"topicName"`
	QuizzesCompleted int       `json:"quizzesCompleted"`
	AverageScore     int       `json:"averageScore"`
	BestScore        int       `json:"bestScore"`
	TotalTimeSpent   int       `json:"totalTimeSpent"`
	LastAttemptDate  time.Time `json:"lastAttemptDate"`
}

// Statistics summarizes the attempt log for display.
type Statistics struct {
	TotalAttempts    int `json:"totalAttempts"`
	AverageScore     int `json:"averageScore"`
	BestScore        int `json:"bestScore"`
	AverageTimeSpent int `json:"averageTimeSpent"`
	PassingRate      int `json:"passingRate"` // percentage of attempts at/above the pass threshold
}

// Achievement is an unlocked milestone derived from UserProgress.
type Achievement struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}
