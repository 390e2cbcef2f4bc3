package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizforge-service/internal/app"
	"quizforge-service/internal/domain"
	"quizforge-service/internal/infra/memory"
)

func testQuestions() []domain.Question {
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
			Answer:   "B", Category: "Science", Difficulty: "Medium",
			Explanation: "Mars appears red.", QualityScore: 0.8, SourceTopic: "astronomy",
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	questions := app.NewQuestionService(memory.NewQuestionStore(testQuestions()))
	scores := app.NewScoreService(memory.NewSessionStore())
	handler := NewHandler(questions, scores, "QuizForge API", "test")

	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("get %s: expected status %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func postJSON(t *testing.T, url string, body any, wantStatus int, out any) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("post %s: expected status %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		Status     string `json:"status"`
		DataLoaded bool   `json:"data_loaded"`
	}
	getJSON(t, server.URL+"/health", http.StatusOK, &body)
	if body.Status != "ok" || !body.DataLoaded {
		t.Fatalf("unexpected health: %+v", body)
	}
}

func TestQuestionEndpoints(t *testing.T) {
	server := newTestServer(t)

	var q domain.Question
	getJSON(t, server.URL+"/questions/1", http.StatusOK, &q)
	if q.Answer != "B" {
		t.Fatalf("unexpected question: %+v", q)
	}

	getJSON(t, server.URL+"/questions/999", http.StatusNotFound, nil)
	getJSON(t, server.URL+"/questions/abc", http.StatusBadRequest, nil)

	var list []domain.Question
	getJSON(t, server.URL+"/questions/category/geography", http.StatusOK, &list)
	if len(list) != 1 || list[0].ID != 0 {
		t.Fatalf("unexpected category result: %+v", list)
	}
	getJSON(t, server.URL+"/questions/category/history", http.StatusNotFound, nil)

	list = nil
	getJSON(t, server.URL+"/questions/search?q=planet", http.StatusOK, &list)
	if len(list) != 1 || list[0].ID != 1 {
		t.Fatalf("unexpected search result: %+v", list)
	}
	getJSON(t, server.URL+"/questions/search?q=x", http.StatusBadRequest, nil)
	getJSON(t, server.URL+"/questions/search?q=nomatch", http.StatusNotFound, nil)

	list = nil
	getJSON(t, server.URL+"/questions/random?count=1", http.StatusOK, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 random question, got %d", len(list))
	}

	var page struct {
		Items      []domain.Question `json:"items"`
		Pagination app.PageInfo      `json:"pagination"`
	}
	getJSON(t, server.URL+"/questions?page=1&limit=1", http.StatusOK, &page)
	if len(page.Items) != 1 || page.Pagination.TotalPages != 2 || !page.Pagination.HasNext {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestValidateAnswerEndpoint(t *testing.T) {
	server := newTestServer(t)

	var result domain.AnswerValidation
	postJSON(t, server.URL+"/questions/answer",
		map[string]any{"question_id": 0, "selected_answer": "a"}, http.StatusOK, &result)
	if !result.Correct || result.CorrectAnswer != "A" {
		t.Fatalf("unexpected validation: %+v", result)
	}

	postJSON(t, server.URL+"/questions/answer",
		map[string]any{"question_id": 0, "selected_answer": "Z"}, http.StatusBadRequest, nil)
	postJSON(t, server.URL+"/questions/answer",
		map[string]any{"question_id": 999, "selected_answer": "A"}, http.StatusNotFound, nil)
}

func TestScoringFlow(t *testing.T) {
	server := newTestServer(t)

	submit := func(username string, qid int, correct bool, wantStatus int) domain.UserSession {
		t.Helper()
		var session domain.UserSession
		out := any(&session)
		if wantStatus != http.StatusOK {
			out = nil
		}
		postJSON(t, server.URL+"/api/score/submit",
			map[string]any{"username": username, "question_id": qid, "correct": correct}, wantStatus, out)
		return session
	}

	submit("", 1, true, http.StatusBadRequest)

	submit("Alice", 1, true, http.StatusOK)
	submit("Alice", 2, false, http.StatusOK)
	session := submit("Alice", 3, true, http.StatusOK)
	if session.Score != 2 || session.TotalAttempts != 3 || session.Accuracy != 66.67 {
		t.Fatalf("unexpected session after submissions: %+v", session)
	}

	var fetched domain.UserSession
	getJSON(t, server.URL+"/api/score/Alice", http.StatusOK, &fetched)
	if fetched.Score != 2 {
		t.Fatalf("unexpected fetched session: %+v", fetched)
	}
	getJSON(t, server.URL+"/api/score/alice", http.StatusNotFound, nil)

	submit("Bob", 1, true, http.StatusOK)

	var lb domain.Leaderboard
	getJSON(t, server.URL+"/api/score/leaderboard/top?limit=10", http.StatusOK, &lb)
	if lb.TotalUsers != 2 || len(lb.Entries) != 2 {
		t.Fatalf("unexpected leaderboard: %+v", lb)
	}
	if lb.Entries[0].Username != "Alice" {
		t.Fatalf("Alice (score 2) should lead: %+v", lb.Entries)
	}

	var users struct {
		TotalUsers int      `json:"total_users"`
		Usernames  []string `json:"usernames"`
	}
	getJSON(t, server.URL+"/api/score/users/list", http.StatusOK, &users)
	if users.TotalUsers != 2 || users.Usernames[0] != "Alice" || users.Usernames[1] != "Bob" {
		t.Fatalf("unexpected users list: %+v", users)
	}

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/score/Alice", nil)
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on reset, got %d", resp.StatusCode)
	}

	getJSON(t, server.URL+"/api/score/Alice", http.StatusNotFound, nil)
	getJSON(t, server.URL+"/api/score/Bob", http.StatusOK, nil)
}

func TestAnalyticsEndpoints(t *testing.T) {
	server := newTestServer(t)

	var stats struct {
		TotalQuestions int            `json:"total_questions"`
		Categories     map[string]int `json:"categories"`
	}
	getJSON(t, server.URL+"/api/stats", http.StatusOK, &stats)
	if stats.TotalQuestions != 2 || stats.Categories["Science"] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	var count struct {
		TotalQuestions int `json:"total_questions"`
	}
	getJSON(t, server.URL+"/api/count", http.StatusOK, &count)
	if count.TotalQuestions != 2 {
		t.Fatalf("unexpected count: %+v", count)
	}

	var catStats struct {
		TotalCategories int `json:"total_categories"`
	}
	getJSON(t, server.URL+"/api/categories/stats", http.StatusOK, &catStats)
	if catStats.TotalCategories != 2 {
		t.Fatalf("unexpected category stats: %+v", catStats)
	}
}
