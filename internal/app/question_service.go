package app

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"quizforge-service/internal/domain"
	"quizforge-service/internal/infra/memory"
)

// QuestionService exposes read-only filter, search, and sampling operations
// over the immutable question dataset.
type QuestionService struct {
	store *memory.QuestionStore
	rnd   *rand.Rand
}

func NewQuestionService(store *memory.QuestionStore) *QuestionService {
	return &QuestionService{
		store: store,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// All returns the full dataset in load order.
func (s *QuestionService) All() []domain.Question {
	return s.store.All()
}

// Count returns the dataset size.
func (s *QuestionService) Count() int {
	return s.store.Len()
}

// ByID returns the question with the given ID, or domain.ErrQuestionNotFound.
func (s *QuestionService) ByID(id int) (domain.Question, error) {
	q, ok := s.store.ByID(id)
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

// ByCategory returns questions whose category matches case-insensitively,
// preserving dataset order. An empty result is not an error; the caller
// decides whether that means "not found".
func (s *QuestionService) ByCategory(category string) []domain.Question {
	var out []domain.Question
	for _, q := range s.store.All() {
		if strings.EqualFold(q.Category, category) {
			out = append(out, q)
		}
	}
	return out
}

// ByDifficulty returns questions whose difficulty matches
// case-insensitively, preserving dataset order.
func (s *QuestionService) ByDifficulty(level string) []domain.Question {
	var out []domain.Question
	for _, q := range s.store.All() {
		if strings.EqualFold(q.Difficulty, level) {
			out = append(out, q)
		}
	}
	return out
}

// Search matches term as a case-insensitive substring of the question text,
// narrowed by optional exact category and difficulty filters. All filters
// are ANDed; dataset order is preserved.
func (s *QuestionService) Search(term, category, difficulty string) []domain.Question {
	needle := strings.ToLower(term)
	var out []domain.Question
	for _, q := range s.store.All() {
		if !strings.Contains(strings.ToLower(q.Question), needle) {
			continue
		}
		if category != "" && !strings.EqualFold(q.Category, category) {
			continue
		}
		if difficulty != "" && !strings.EqualFold(q.Difficulty, difficulty) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Random returns min(count, dataset size) questions chosen uniformly
// without replacement. The sample is intentionally non-reproducible.
func (s *QuestionService) Random(count int) []domain.Question {
	questions := s.store.All()
	if len(questions) == 0 || count <= 0 {
		return []domain.Question{}
	}
	if count > len(questions) {
		count = len(questions)
	}
	picked := s.rnd.Perm(len(questions))[:count]
	out := make([]domain.Question, 0, count)
	for _, i := range picked {
		out = append(out, questions[i])
	}
	return out
}

// ValidateAnswer checks a submitted label against a question's answer key.
// The label is trimmed and uppercased before validation; anything outside
// A-D is rejected.
func (s *QuestionService) ValidateAnswer(questionID int, selected string) (domain.AnswerValidation, error) {
	label := strings.ToUpper(strings.TrimSpace(selected))
	valid := false
	for _, l := range domain.AnswerLabels {
		if label == l {
			valid = true
			break
		}
	}
	if !valid {
		return domain.AnswerValidation{}, domain.ErrInvalidAnswerLabel
	}

	q, ok := s.store.ByID(questionID)
	if !ok {
		return domain.AnswerValidation{}, domain.ErrQuestionNotFound
	}

	correct := strings.ToUpper(strings.TrimSpace(q.Answer))
	return domain.AnswerValidation{
		QuestionID:     questionID,
		Correct:        label == correct,
		CorrectAnswer:  correct,
		SelectedAnswer: label,
		Explanation:    q.Explanation,
	}, nil
}

// Categories returns the sorted unique categories present in the dataset.
func (s *QuestionService) Categories() []string {
	return uniqueSorted(s.store.All(), func(q domain.Question) string { return q.Category })
}

// Difficulties returns the sorted unique difficulty levels in the dataset.
func (s *QuestionService) Difficulties() []string {
	return uniqueSorted(s.store.All(), func(q domain.Question) string { return q.Difficulty })
}

func uniqueSorted(questions []domain.Question, key func(domain.Question) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, q := range questions {
		k := key(q)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
