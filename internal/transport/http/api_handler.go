package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/leaderboard"
)

const maxBodyBytes = 1 << 20

// Limits are the page sizes used when a request has no limit parameter.
type Limits struct {
	Leaderboard int
	Articles    int
}

// APIHandler exposes the credibility services as JSON endpoints.
type APIHandler struct {
	submissions *app.SubmissionService
	flags       *app.FlagService
	stats       *app.StatsService
	users       *app.UserService
	limits      Limits
}

func NewAPIHandler(submissions *app.SubmissionService, flags *app.FlagService, stats *app.StatsService, users *app.UserService, limits Limits) *APIHandler {
	if limits.Leaderboard <= 0 {
		limits.Leaderboard = 10
	}
	if limits.Articles <= 0 {
		limits.Articles = 10
	}
	return &APIHandler{
		submissions: submissions,
		flags:       flags,
		stats:       stats,
		users:       users,
		limits:      limits,
	}
}

// Register mounts the API routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users", h.registerUser)
	mux.HandleFunc("POST /api/submissions", h.submitQuiz)
	mux.HandleFunc("POST /api/flags", h.flagArticle)
	mux.HandleFunc("GET /api/articles/top-flagged", h.topFlagged)
	mux.HandleFunc("GET /api/articles/most-credible", h.mostCredible)
	mux.HandleFunc("GET /api/articles/{id}/stats", h.articleStats)
	mux.HandleFunc("GET /api/articles/{id}/flags", h.articleFlags)
	mux.HandleFunc("GET /api/users/{id}/stats", h.userStats)
	mux.HandleFunc("GET /api/leaderboard", h.leaderboard)
}

type registerRequest struct {
	UserIdentifier string `json:"userIdentifier"`
}

func (h *APIHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, "register", &req) {
		return
	}
	user, err := h.users.Register(r.Context(), req.UserIdentifier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *APIHandler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var sub domain.QuizSubmission
	if !h.decode(w, r, "submission", &sub) {
		return
	}
	result, err := h.submissions.Submit(r.Context(), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *APIHandler) flagArticle(w http.ResponseWriter, r *http.Request) {
	var sub domain.FlagSubmission
	if !h.decode(w, r, "flag", &sub) {
		return
	}
	flag, err := h.flags.FlagArticle(r.Context(), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, flag)
}

func (h *APIHandler) articleStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	stats, err := h.stats.ArticleStatistics(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *APIHandler) articleFlags(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	flags, err := h.flags.FlagsForArticle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if flags == nil {
		flags = []domain.MisinformationFlag{}
	}
	writeJSON(w, http.StatusOK, flags)
}

func (h *APIHandler) topFlagged(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, h.limits.Articles)
	if !ok {
		return
	}
	articles, err := h.stats.TopFlaggedArticles(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(articles))
}

func (h *APIHandler) mostCredible(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, h.limits.Articles)
	if !ok {
		return
	}
	articles, err := h.stats.MostCredibleArticles(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(articles))
}

func (h *APIHandler) userStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	stats, err := h.stats.UserStatistics(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *APIHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, h.limits.Leaderboard)
	if !ok {
		return
	}
	entries, err := h.stats.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) decode(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, err)
		return false
	}
	if err := decodeValidated(schema, raw, dst); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

func queryLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return limit, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

type errorPayload struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	default:
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func nonNil(articles []domain.Article) []domain.Article {
	if articles == nil {
		return []domain.Article{}
	}
	return articles
}
