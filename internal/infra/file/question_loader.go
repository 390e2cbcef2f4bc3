package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quizforge-service/internal/domain"
)

// QuestionLoader reads the question dataset from a JSON file containing a
// single array of question objects.
type QuestionLoader struct {
	path string
}

func NewQuestionLoader(path string) *QuestionLoader {
	return &QuestionLoader{path: path}
}

func (l *QuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read question dataset %s: %w", l.path, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("parse question dataset %s: %w", l.path, err)
	}
	return questions, nil
}
