package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"quizforge-service/internal/app"
	"quizforge-service/internal/domain"
)

// Handler wires the question and scoring services into the REST API.
type Handler struct {
	questions *app.QuestionService
	scores    *app.ScoreService
	appName   string
	version   string
}

func NewHandler(questions *app.QuestionService, scores *app.ScoreService, appName, version string) *Handler {
	return &Handler{
		questions: questions,
		scores:    scores,
		appName:   appName,
		version:   version,
	}
}

// Routes builds the chi router for the full API surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.health)

	r.Route("/questions", func(r chi.Router) {
		r.Get("/", h.listQuestions)
		r.Get("/random", h.randomQuestions)
		r.Get("/search", h.searchQuestions)
		r.Get("/categories", h.questionCategories)
		r.Get("/difficulties", h.questionDifficulties)
		r.Get("/category/{category}", h.questionsByCategory)
		r.Get("/difficulty/{level}", h.questionsByDifficulty)
		r.Post("/answer", h.validateAnswer)
		r.Get("/{id}", h.questionByID)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.stats)
		r.Get("/categories", h.analyticsCategories)
		r.Get("/categories/stats", h.categoryStats)
		r.Get("/difficulty", h.analyticsDifficulties)
		r.Get("/difficulty/stats", h.difficultyStats)
		r.Get("/topics", h.topics)
		r.Get("/count", h.count)
		r.Get("/summary", h.summary)

		r.Route("/score", func(r chi.Router) {
			r.Post("/submit", h.submitAnswer)
			r.Get("/leaderboard/top", h.leaderboard)
			r.Get("/users/list", h.listUsers)
			r.Get("/{username}", h.userScore)
			r.Delete("/{username}", h.resetUser)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"app":         h.appName,
		"version":     h.version,
		"data_loaded": h.questions.Count() > 0,
	})
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := clamp(queryInt(r, "limit", 20), 1, 100)
	writeJSON(w, http.StatusOK, app.Paginate(h.questions.All(), page, limit))
}

func (h *Handler) randomQuestions(w http.ResponseWriter, r *http.Request) {
	if h.questions.Count() == 0 {
		h.writeError(w, domain.ErrNoQuestions)
		return
	}
	count := clamp(queryInt(r, "count", 10), 1, 100)
	writeJSON(w, http.StatusOK, h.questions.Random(count))
}

func (h *Handler) questionsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	limit := clamp(queryInt(r, "limit", 20), 1, 100)

	results := h.questions.ByCategory(category)
	if len(results) == 0 {
		writeErrorMessage(w, http.StatusNotFound, "no questions found for category '"+category+"'")
		return
	}
	writeJSON(w, http.StatusOK, truncate(results, limit))
}

func (h *Handler) questionsByDifficulty(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")
	limit := clamp(queryInt(r, "limit", 20), 1, 100)

	results := h.questions.ByDifficulty(level)
	if len(results) == 0 {
		writeErrorMessage(w, http.StatusNotFound, "no questions found for difficulty '"+level+"'")
		return
	}
	writeJSON(w, http.StatusOK, truncate(results, limit))
}

func (h *Handler) searchQuestions(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if len(term) < 2 {
		writeErrorMessage(w, http.StatusBadRequest, "search query must be at least 2 characters")
		return
	}
	limit := clamp(queryInt(r, "limit", 20), 1, 100)

	results := h.questions.Search(term, r.URL.Query().Get("category"), r.URL.Query().Get("difficulty"))
	if len(results) == 0 {
		writeErrorMessage(w, http.StatusNotFound, "no results found for search term '"+term+"'")
		return
	}
	writeJSON(w, http.StatusOK, truncate(results, limit))
}

func (h *Handler) validateAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID     int    `json:"question_id"`
		SelectedAnswer string `json:"selected_answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.questions.ValidateAnswer(req.QuestionID, req.SelectedAnswer)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) questionCategories(w http.ResponseWriter, _ *http.Request) {
	categories := h.questions.Categories()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(categories),
		"categories": categories,
	})
}

func (h *Handler) questionDifficulties(w http.ResponseWriter, _ *http.Request) {
	levels := h.questions.Difficulties()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(levels),
		"levels": levels,
	})
}

func (h *Handler) questionByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		writeErrorMessage(w, http.StatusBadRequest, "question id must be a non-negative integer")
		return
	}

	q, err := h.questions.ByID(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username   string `json:"username"`
		QuestionID int    `json:"question_id"`
		Correct    bool   `json:"correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.scores.RecordAnswer(req.Username, req.QuestionID, req.Correct)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) userScore(w http.ResponseWriter, r *http.Request) {
	session, err := h.scores.GetUserScore(chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := clamp(queryInt(r, "limit", 10), 1, 50)
	lb, err := h.scores.GetLeaderboard(limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *Handler) resetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	removed, err := h.scores.ResetUserSession(username)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !removed {
		writeErrorMessage(w, http.StatusNotFound, "user '"+username+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "session for user '" + username + "' has been reset",
		"username": username,
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, _ *http.Request) {
	usernames, err := h.scores.GetAllUsers()
	if err != nil {
		h.writeError(w, err)
		return
	}
	sort.Strings(usernames)
	writeJSON(w, http.StatusOK, map[string]any{
		"total_users": len(usernames),
		"usernames":   usernames,
	})
}

func (h *Handler) stats(w http.ResponseWriter, _ *http.Request) {
	if h.questions.Count() == 0 {
		h.writeError(w, domain.ErrNoQuestions)
		return
	}
	writeJSON(w, http.StatusOK, h.questions.Summary())
}

func (h *Handler) analyticsCategories(w http.ResponseWriter, _ *http.Request) {
	categories := h.questions.Categories()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(categories),
		"categories": categories,
	})
}

func (h *Handler) analyticsDifficulties(w http.ResponseWriter, _ *http.Request) {
	levels := h.questions.Difficulties()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":             len(levels),
		"difficulty_levels": levels,
	})
}

func (h *Handler) topics(w http.ResponseWriter, _ *http.Request) {
	topics := h.questions.Topics()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(topics),
		"topics": topics,
	})
}

func (h *Handler) count(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{
		"total_questions": h.questions.Count(),
	})
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	if h.questions.Count() == 0 {
		h.writeError(w, domain.ErrNoQuestions)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": h.questions.Summary(),
	})
}

func (h *Handler) categoryStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.questions.CategoryStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"total_categories": len(stats),
		"stats":            stats,
	})
}

func (h *Handler) difficultyStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.questions.DifficultyStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"total_levels": len(stats),
		"stats":        stats,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidUsername), errors.Is(err, domain.ErrInvalidAnswerLabel):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoQuestions):
		writeErrorMessage(w, http.StatusServiceUnavailable, err.Error())
	default:
		logrus.WithField("error", err).Error("request failed")
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithField("error", err).Error("write response")
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(questions []domain.Question, limit int) []domain.Question {
	if limit > 0 && limit < len(questions) {
		return questions[:limit]
	}
	return questions
}
