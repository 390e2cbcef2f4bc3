package app_test

import (
	"errors"
	"fmt"
	"testing"

	"quizforge-service/internal/app"
	"quizforge-service/internal/domain"
	"quizforge-service/internal/infra/memory"
)

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       0,
			Question: "What is the capital of France?",
			Options:  map[string]string{"A": "Paris", "B": "Lyon", "C": "Nice", "D": "Lille"},
			Answer:   "A", Category: "Geography", Difficulty: "Easy",
			Explanation: "Paris is the capital.", QualityScore: 0.9, SourceTopic: "europe",
		},
		{
			ID:       1,
			Question: "Which planet is known as the Red Planet?",
			Options:  map[string]string{"A": "Venus", "B": "Mars", "C": "Jupiter", "D": "Saturn"},
			Answer:   "B", Category: "Science", Difficulty: "Easy",
			Explanation: "Mars appears red.", QualityScore: 0.8, SourceTopic: "astronomy",
		},
		{
			ID:       2,
			Question: "What is the derivative of x^2?",
			Options:  map[string]string{"A": "x", "B": "2", "C": "2x", "D": "x^2"},
			Answer:   "C", Category: "Math", Difficulty: "Medium",
			Explanation: "Power rule.", QualityScore: 0.7, SourceTopic: "calculus",
		},
		{
			ID:       3,
			Question: "Which gas do plants absorb from the atmosphere?",
			Options:  map[string]string{"A": "Oxygen", "B": "Nitrogen", "C": "Helium", "D": "Carbon dioxide"},
			Answer:   "D", Category: "Science", Difficulty: "Hard",
			Explanation: "Photosynthesis consumes CO2.", QualityScore: 0.6, SourceTopic: "biology",
		},
	}
}

func newTestQuestionService() *app.QuestionService {
	return app.NewQuestionService(memory.NewQuestionStore(sampleQuestions()))
}

func TestByCategoryCaseInsensitive(t *testing.T) {
	service := newTestQuestionService()

	results := service.ByCategory("science")
	if len(results) != 2 {
		t.Fatalf("expected 2 science questions, got %d", len(results))
	}
	if results[0].ID != 1 || results[1].ID != 3 {
		t.Fatalf("dataset order not preserved: %v", []int{results[0].ID, results[1].ID})
	}

	if got := service.ByCategory("history"); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestByDifficultyCaseInsensitive(t *testing.T) {
	service := newTestQuestionService()

	results := service.ByDifficulty("EASY")
	if len(results) != 2 {
		t.Fatalf("expected 2 easy questions, got %d", len(results))
	}
}

func TestSearchWithFilters(t *testing.T) {
	service := newTestQuestionService()

	if got := service.Search("planet", "", ""); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("substring search failed: %+v", got)
	}

	// AND semantics: term matches but category filter excludes it.
	if got := service.Search("planet", "Math", ""); len(got) != 0 {
		t.Fatalf("category filter must narrow results, got %+v", got)
	}

	if got := service.Search("WHICH", "science", "hard"); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("combined filters failed: %+v", got)
	}
}

func TestByID(t *testing.T) {
	service := newTestQuestionService()

	q, err := service.ByID(2)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if q.Answer != "C" {
		t.Fatalf("unexpected question: %+v", q)
	}

	if _, err := service.ByID(42); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestRandomSampleSize(t *testing.T) {
	service := newTestQuestionService()

	if got := service.Random(2); len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	if got := service.Random(100); len(got) != 4 {
		t.Fatalf("count beyond dataset must cap at dataset size, got %d", len(got))
	}

	// Without replacement: no duplicate IDs in a full-size sample.
	seen := make(map[int]bool)
	for _, q := range service.Random(4) {
		if seen[q.ID] {
			t.Fatalf("duplicate question %d in sample", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestValidateAnswer(t *testing.T) {
	service := newTestQuestionService()

	result, err := service.ValidateAnswer(0, " a ")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.Correct || result.CorrectAnswer != "A" || result.SelectedAnswer != "A" {
		t.Fatalf("unexpected validation: %+v", result)
	}

	result, err = service.ValidateAnswer(0, "B")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Correct {
		t.Fatalf("B should be wrong for question 0")
	}

	if _, err := service.ValidateAnswer(0, "E"); !errors.Is(err, domain.ErrInvalidAnswerLabel) {
		t.Fatalf("expected ErrInvalidAnswerLabel, got %v", err)
	}
	if _, err := service.ValidateAnswer(42, "A"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestCategoriesAndDifficulties(t *testing.T) {
	service := newTestQuestionService()

	categories := service.Categories()
	want := []string{"Geography", "Math", "Science"}
	if fmt.Sprint(categories) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, categories)
	}

	levels := service.Difficulties()
	wantLevels := []string{"Easy", "Hard", "Medium"}
	if fmt.Sprint(levels) != fmt.Sprint(wantLevels) {
		t.Fatalf("expected %v, got %v", wantLevels, levels)
	}
}
