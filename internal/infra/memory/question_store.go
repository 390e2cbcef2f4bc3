package memory

import (
	"context"

	"quizforge-service/internal/domain"
)

// QuestionLoader fetches the question dataset from a backing source
// (JSON file, Postgres, etc).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionStore holds the immutable question dataset for the process
// lifetime. It is loaded once at startup and never mutated afterwards, so it
// is safe for unlimited concurrent readers without locking.
type QuestionStore struct {
	questions []domain.Question
	byID      map[int]int
}

func NewQuestionStore(questions []domain.Question) *QuestionStore {
	byID := make(map[int]int, len(questions))
	for i, q := range questions {
		if _, ok := byID[q.ID]; !ok {
			byID[q.ID] = i
		}
	}
	return &QuestionStore{questions: questions, byID: byID}
}

// LoadQuestionStore builds the store from a loader. This is the single
// initialization step; there is no module-level dataset singleton.
func LoadQuestionStore(ctx context.Context, loader QuestionLoader) (*QuestionStore, error) {
	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return NewQuestionStore(questions), nil
}

// All returns the dataset in load order. Callers must not mutate the slice.
func (s *QuestionStore) All() []domain.Question {
	return s.questions
}

// ByID returns the question with the given ID.
func (s *QuestionStore) ByID(id int) (domain.Question, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Question{}, false
	}
	return s.questions[i], true
}

func (s *QuestionStore) Len() int {
	return len(s.questions)
}

// StaticQuestionLoader serves a fixed slice of questions (tests/demos).
type StaticQuestionLoader struct {
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	return l.questions, nil
}
