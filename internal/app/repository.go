package app

import (
	"context"

	"news-credibility-service/internal/aggregate"
	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/leaderboard"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error)
}

// Repository is the storage contract the credibility core reads and writes through.
// Every write must be atomic with respect to readers.
type Repository interface {
	aggregate.Source

	GetQuestion(ctx context.Context, questionID int64) (domain.Question, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (domain.User, error)
	// EligibleUsers returns users with at least one quiz taken, in ID order.
	EligibleUsers(ctx context.Context) ([]domain.User, error)
	FlagsByArticle(ctx context.Context, articleID int64) ([]domain.MisinformationFlag, error)
	TopFlaggedArticles(ctx context.Context, limit int) ([]domain.Article, error)
	MostCredibleArticles(ctx context.Context, minResponses, limit int) ([]domain.Article, error)
	ArticleIDs(ctx context.Context) ([]int64, error)
	UserIDs(ctx context.Context) ([]int64, error)

	CreateUser(ctx context.Context, user *domain.User) error
	SaveResponse(ctx context.Context, response *domain.UserResponse) error
	SaveAnswer(ctx context.Context, answer *domain.UserAnswer) error
	SaveFlag(ctx context.Context, flag *domain.MisinformationFlag) error
}

// Store is a Repository that can run a unit of work atomically. Writes made through
// the repo passed to fn become visible together when fn returns nil and are
// discarded otherwise.
type Store interface {
	Repository
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

// LeaderboardCache keeps the last computed leaderboard between submissions.
type LeaderboardCache interface {
	Get(ctx context.Context) ([]leaderboard.Entry, bool)
	Set(ctx context.Context, entries []leaderboard.Entry)
	Invalidate(ctx context.Context)
}
