package domain

import (
	"math"
	"time"
)

// AnswerLabels are the four accepted option labels for every question.
var AnswerLabels = []string{"A", "B", "C", "D"}

// Question is one immutable entry of the quiz dataset. Options maps each of
// the four labels "A"-"D" to its option text.
type Question struct {
	ID           int               `json:"id"`
	Question     string            `json:"question"`
	Options      map[string]string `json:"options"`
	Answer       string            `json:"answer"`
	Category     string            `json:"category"`
	Difficulty   string            `json:"difficulty"`
	Explanation  string            `json:"explanation"`
	QualityScore float64           `json:"quality_score"`
	SourceTopic  string            `json:"source_topic"`
}

// AnswerRecord is one recorded answer. Records are append-only; ordering
// within a session is chronological.
type AnswerRecord struct {
	QuestionID int       `json:"question_id"`
	Correct    bool      `json:"correct"`
	Timestamp  time.Time `json:"timestamp"`
}

// UserSession is the complete answer history and derived statistics for one
// username. Username matching is case-sensitive.
type UserSession struct {
	Username      string         `json:"username"`
	Answers       []AnswerRecord `json:"answers"`
	Score         int            `json:"score"`
	Accuracy      float64        `json:"accuracy"`
	TotalAttempts int            `json:"total_attempts"`
	CreatedAt     time.Time      `json:"created_at"`
	LastUpdated   time.Time      `json:"last_updated"`
}

// Accuracy returns the percentage of correct answers rounded to 2 decimal
// places, or 0 when there are no attempts.
func Accuracy(score, attempts int) float64 {
	if attempts == 0 {
		return 0
	}
	return math.Round(100*float64(score)/float64(attempts)*100) / 100
}

// LeaderboardEntry is the ranked view of one session.
type LeaderboardEntry struct {
	Username      string  `json:"username"`
	Score         int     `json:"score"`
	Accuracy      float64 `json:"accuracy"`
	TotalAttempts int     `json:"total_attempts"`
}

// Leaderboard is a ranked, length-limited view over all sessions.
type Leaderboard struct {
	TotalUsers int                `json:"total_users"`
	Entries    []LeaderboardEntry `json:"leaderboard"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// AnswerValidation is the outcome of checking a submitted label against a
// question's answer key.
type AnswerValidation struct {
	QuestionID     int    `json:"question_id"`
	Correct        bool   `json:"correct"`
	CorrectAnswer  string `json:"correct_answer"`
	SelectedAnswer string `json:"selected_answer"`
	Explanation    string `json:"explanation"`
}
