package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/infra/memory"
)

type fixture struct {
	server *httptest.Server
	quiz   domain.Quiz
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	article := &domain.Article{URL: "https://news.example/story", Content: "body"}
	if err := store.CreateArticle(ctx, article); err != nil {
		t.Fatalf("create article: %v", err)
	}
	quiz := &domain.Quiz{
		ArticleID: article.ID,
		Questions: []domain.Question{
			{Text: "Who is quoted?", Options: [4]string{"A", "B", "C", "D"}, CorrectOption: domain.Option2},
			{Text: "When?", Options: [4]string{"Mon", "Tue", "Wed", "Thu"}, CorrectOption: domain.Option4},
		},
	}
	if err := store.CreateQuiz(ctx, quiz); err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	board := memory.NewLeaderboardCache(time.Minute)
	feed := app.NewArticleFeed()
	quizzes := memory.NewQuizRepository(store, time.Minute)
	stats := app.NewStatsService(store, board, app.StatsOptions{})
	api := NewAPIHandler(
		app.NewSubmissionService(store, quizzes, board, feed),
		app.NewFlagService(store, board, feed),
		stats,
		app.NewUserService(store),
		Limits{},
	)

	mux := http.NewServeMux()
	api.Register(mux)
	mux.HandleFunc("/ws", NewWSHandler(feed, stats).ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return fixture{server: server, quiz: *quiz}
}

func (f fixture) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (f fixture) register(t *testing.T, identifier string) domain.User {
	t.Helper()
	var user domain.User
	if code := f.do(t, http.MethodPost, "/api/users", map[string]any{"userIdentifier": identifier}, &user); code != http.StatusOK {
		t.Fatalf("register: status %d", code)
	}
	return user
}

func (f fixture) submission(userID int64) map[string]any {
	return map[string]any{
		"quizId": f.quiz.ID,
		"userId": userID,
		"answers": []map[string]any{
			{"questionId": f.quiz.Questions[0].ID, "selectedOption": 2, "timeTakenSeconds": 4},
			{"questionId": f.quiz.Questions[1].ID, "selectedOption": 1},
		},
		"credibilityRating": 4,
		"confidenceLevel":   3,
	}
}

func TestSubmitQuizFlow(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "alice")

	var result domain.SubmissionResult
	if code := f.do(t, http.MethodPost, "/api/submissions", f.submission(user.ID), &result); code != http.StatusCreated {
		t.Fatalf("submit: status %d", code)
	}
	if result.TotalQuestions != 2 || result.CorrectAnswers != 1 || result.ScorePercentage != 50 {
		t.Fatalf("unexpected score: %+v", result)
	}
	if result.ArticleCredibilityScore != 80 || result.CommunityConsensus != domain.SubmissionLikelyCredible {
		t.Fatalf("unexpected credibility: %+v", result)
	}

	var stats app.ArticleStatistics
	if code := f.do(t, http.MethodGet, "/api/articles/1/stats", nil, &stats); code != http.StatusOK {
		t.Fatalf("article stats: status %d", code)
	}
	if stats.TotalUsersAnalyzed != 1 || stats.Consensus != domain.ArticleHighCredibility {
		t.Fatalf("unexpected article stats: %+v", stats)
	}

	var board []map[string]any
	if code := f.do(t, http.MethodGet, "/api/leaderboard", nil, &board); code != http.StatusOK {
		t.Fatalf("leaderboard: status %d", code)
	}
	if len(board) != 1 || board[0]["displayName"] != "alice" {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}
}

func TestSubmitQuizErrors(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "bob")

	bad := f.submission(user.ID)
	bad["credibilityRating"] = 9
	if code := f.do(t, http.MethodPost, "/api/submissions", bad, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range rating, got %d", code)
	}

	unknownQuiz := f.submission(user.ID)
	unknownQuiz["quizId"] = 404
	if code := f.do(t, http.MethodPost, "/api/submissions", unknownQuiz, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown quiz, got %d", code)
	}

	unknownUser := f.submission(999)
	if code := f.do(t, http.MethodPost, "/api/submissions", unknownUser, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", code)
	}

	if code := f.do(t, http.MethodGet, "/api/articles/abc/stats", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", code)
	}
}

func TestFlagArticle(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "carol")

	short := map[string]any{"articleId": 1, "userId": user.ID, "flagType": "satire", "severity": 2, "reasoning": "too short"}
	if code := f.do(t, http.MethodPost, "/api/flags", short, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short reasoning, got %d", code)
	}

	flag := map[string]any{
		"articleId": 1,
		"userId":    user.ID,
		"flagType":  "misleading",
		"severity":  4,
		"reasoning": strings.Repeat("quote is out of context ", 2),
	}
	var created domain.MisinformationFlag
	if code := f.do(t, http.MethodPost, "/api/flags", flag, &created); code != http.StatusCreated {
		t.Fatalf("flag: status %d", code)
	}
	if created.ID == 0 || created.Type != domain.FlagMisleading {
		t.Fatalf("unexpected flag: %+v", created)
	}

	var flags []domain.MisinformationFlag
	if code := f.do(t, http.MethodGet, "/api/articles/1/flags", nil, &flags); code != http.StatusOK {
		t.Fatalf("list flags: status %d", code)
	}
	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}

	if code := f.do(t, http.MethodGet, "/api/articles/42/flags", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown article, got %d", code)
	}
}

func TestWebSocketArticleUpdates(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "dave")

	u := "ws" + f.server.URL[len("http"):] + "/ws?articleId=1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_, payload := readNext(conn, t, "snapshot")
	if payload["consensus"] != string(domain.ArticleConsensusNotEnoughData) {
		t.Fatalf("expected not_enough_data snapshot, got %v", payload["consensus"])
	}

	if code := f.do(t, http.MethodPost, "/api/submissions", f.submission(user.ID), nil); code != http.StatusCreated {
		t.Fatalf("submit: status %d", code)
	}

	_, payload = readNext(conn, t, "update")
	if payload["totalResponses"] != float64(1) {
		t.Fatalf("expected one response in update, got %v", payload["totalResponses"])
	}
	if payload["credibilityScore"] != float64(80) {
		t.Fatalf("expected score 80, got %v", payload["credibilityScore"])
	}
}

func TestWebSocketRejectsUnknownArticle(t *testing.T) {
	f := newFixture(t)
	u := "ws" + f.server.URL[len("http"):] + "/ws?articleId=77"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %+v", resp)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
