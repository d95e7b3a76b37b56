package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/infra/memory"
)

var fixedNow = time.Date(2025, 1, 18, 12, 0, 0, 0, time.UTC)

type env struct {
	store       *memory.Store
	board       *memory.LeaderboardCache
	feed        *app.ArticleFeed
	submissions *app.SubmissionService
	flags       *app.FlagService
	stats       *app.StatsService
	users       *app.UserService
	article     domain.Article
	quiz        domain.Quiz
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	article := &domain.Article{URL: "https://news.example/story", Content: "body"}
	require.NoError(t, store.CreateArticle(ctx, article))
	quiz := &domain.Quiz{
		ArticleID: article.ID,
		Questions: []domain.Question{
			{Text: "Who is quoted?", Options: [4]string{"A", "B", "C", "D"}, CorrectOption: domain.Option2},
			{Text: "When?", Options: [4]string{"Mon", "Tue", "Wed", "Thu"}, CorrectOption: domain.Option4},
			{Text: "Where?", Options: [4]string{"Here", "There", "Nowhere", "Everywhere"}, CorrectOption: domain.Option1},
		},
	}
	require.NoError(t, store.CreateQuiz(ctx, quiz))

	board := memory.NewLeaderboardCache(time.Minute)
	feed := app.NewArticleFeed()
	quizzes := memory.NewQuizRepository(store, time.Minute)
	clock := func() time.Time { return fixedNow }
	return &env{
		store:       store,
		board:       board,
		feed:        feed,
		submissions: app.NewSubmissionServiceWithClock(store, quizzes, board, feed, clock),
		flags:       app.NewFlagService(store, board, feed),
		stats:       app.NewStatsService(store, board, app.StatsOptions{}),
		users:       app.NewUserService(store),
		article:     *article,
		quiz:        *quiz,
	}
}

func (e *env) user(t *testing.T, identifier string) domain.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), identifier)
	require.NoError(t, err)
	return u
}

// answers builds a submission answering the first n questions correctly and the
// rest wrong.
func (e *env) answers(correct int) []domain.AnswerSubmission {
	out := make([]domain.AnswerSubmission, len(e.quiz.Questions))
	for i, q := range e.quiz.Questions {
		selected := q.CorrectOption
		if i >= correct {
			selected = q.CorrectOption%domain.Option4 + 1
		}
		out[i] = domain.AnswerSubmission{QuestionID: q.ID, SelectedOption: selected}
	}
	return out
}

func (e *env) submit(t *testing.T, userID int64, correct, rating, confidence int) domain.SubmissionResult {
	t.Helper()
	res, err := e.submissions.Submit(context.Background(), domain.QuizSubmission{
		QuizID:            e.quiz.ID,
		UserID:            userID,
		Answers:           e.answers(correct),
		CredibilityRating: rating,
		ConfidenceLevel:   confidence,
	})
	require.NoError(t, err)
	return res
}
