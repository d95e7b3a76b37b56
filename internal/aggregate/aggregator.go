// Package aggregate recomputes derived article and user fields by folding over
// the full set of stored responses. Nothing is patched incrementally.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/scoring"
)

// Source is the slice of the store the aggregator reads from and writes to.
type Source interface {
	GetArticle(ctx context.Context, articleID int64) (domain.Article, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
	ResponsesByArticle(ctx context.Context, articleID int64) ([]domain.UserResponse, error)
	ResponsesByUser(ctx context.Context, userID int64) ([]domain.UserResponse, error)
	FlagCountByUser(ctx context.Context, userID int64) (int, error)
	UpdateArticleDerived(ctx context.Context, articleID int64, derived domain.ArticleDerived) error
	UpdateUserDerived(ctx context.Context, userID int64, stats domain.UserStats) error
}

// Aggregator recomputes derived fields for one entity at a time.
type Aggregator struct {
	src Source
	now func() time.Time
}

func New(src Source) *Aggregator {
	return NewWithClock(src, time.Now)
}

// NewWithClock allows deterministic last_active timestamps in tests.
func NewWithClock(src Source, now func() time.Time) *Aggregator {
	return &Aggregator{src: src, now: now}
}

// RecomputeArticle refreshes credibility and counters from all responses for the
// article. With no responses the article is returned untouched.
func (a *Aggregator) RecomputeArticle(ctx context.Context, articleID int64) (domain.Article, error) {
	article, err := a.src.GetArticle(ctx, articleID)
	if err != nil {
		return domain.Article{}, err
	}
	responses, err := a.src.ResponsesByArticle(ctx, articleID)
	if err != nil {
		return domain.Article{}, fmt.Errorf("responses for article %d: %w", articleID, err)
	}
	if len(responses) == 0 {
		return article, nil
	}

	derived := FoldArticle(article.CredibilityScore, responses)
	if err := a.src.UpdateArticleDerived(ctx, articleID, derived); err != nil {
		return domain.Article{}, fmt.Errorf("update article %d: %w", articleID, err)
	}
	derived.Apply(&article)
	return article, nil
}

// RecomputeUser refreshes a user's statistics from all of their responses and
// flags. With no responses the user is returned untouched.
func (a *Aggregator) RecomputeUser(ctx context.Context, userID int64) (domain.User, error) {
	user, err := a.src.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	responses, err := a.src.ResponsesByUser(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("responses for user %d: %w", userID, err)
	}
	if len(responses) == 0 {
		return user, nil
	}
	flags, err := a.src.FlagCountByUser(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("flags for user %d: %w", userID, err)
	}

	stats := FoldUser(responses, flags, a.now())
	if err := a.src.UpdateUserDerived(ctx, userID, stats); err != nil {
		return domain.User{}, fmt.Errorf("update user %d: %w", userID, err)
	}
	user.Stats = stats
	return user, nil
}

// FoldArticle derives article fields from its responses. prior is kept when the
// ratings carry no weight.
func FoldArticle(prior float64, responses []domain.UserResponse) domain.ArticleDerived {
	ratings := make([]scoring.Rating, 0, len(responses))
	flagged := 0
	for _, r := range responses {
		ratings = append(ratings, scoring.Rating{Value: r.CredibilityRating, Weight: r.ConfidenceLevel})
		if r.FlaggedAsMisinformation {
			flagged++
		}
	}
	score, ok := scoring.Credibility(ratings)
	if !ok {
		score = prior
	}
	return domain.ArticleDerived{
		CredibilityScore:        score,
		TotalResponses:          len(responses),
		FlaggedAsMisinformation: flagged,
		FlaggedAsCredible:       len(responses) - flagged,
	}
}

// FoldUser derives user statistics from responses and the user's flag count.
func FoldUser(responses []domain.UserResponse, flagCount int, now time.Time) domain.UserStats {
	stats := domain.UserStats{
		TotalQuizzesTaken:      len(responses),
		ArticlesFlagged:        flagCount,
		CredibilityRatingGiven: len(responses),
		LastActive:             now,
	}
	for _, r := range responses {
		stats.TotalCorrectAnswers += r.CorrectAnswers
		stats.TotalAnswers += r.TotalQuestions
	}
	stats.AccuracyRate = scoring.Percentage(stats.TotalCorrectAnswers, stats.TotalAnswers)
	return stats
}
