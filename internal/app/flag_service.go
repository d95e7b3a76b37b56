package app

import (
	"context"
	"fmt"
	"time"

	"news-credibility-service/internal/aggregate"
	"news-credibility-service/internal/domain"
)

// FlagService records misinformation flags.
type FlagService struct {
	store Store
	board LeaderboardCache
	feed  *ArticleFeed
	now   func() time.Time
}

func NewFlagService(store Store, board LeaderboardCache, feed *ArticleFeed) *FlagService {
	return &FlagService{store: store, board: board, feed: feed, now: time.Now}
}

// FlagArticle stores a flag and re-aggregates the flagged article and the flagging user.
func (s *FlagService) FlagArticle(ctx context.Context, sub domain.FlagSubmission) (domain.MisinformationFlag, error) {
	if err := sub.Validate(); err != nil {
		return domain.MisinformationFlag{}, err
	}

	var (
		flag    domain.MisinformationFlag
		article domain.Article
	)
	err := s.store.RunInTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.GetArticle(ctx, sub.ArticleID); err != nil {
			return err
		}
		if _, err := repo.GetUser(ctx, sub.UserID); err != nil {
			return err
		}

		flag = domain.MisinformationFlag{
			ArticleID: sub.ArticleID,
			UserID:    sub.UserID,
			Type:      sub.Type,
			Severity:  sub.Severity,
			Reasoning: sub.Reasoning,
			Evidence:  sub.Evidence,
			CreatedAt: s.now(),
		}
		if err := repo.SaveFlag(ctx, &flag); err != nil {
			return fmt.Errorf("save flag: %w", err)
		}

		agg := aggregate.NewWithClock(repo, s.now)
		var err error
		if article, err = agg.RecomputeArticle(ctx, sub.ArticleID); err != nil {
			return err
		}
		_, err = agg.RecomputeUser(ctx, sub.UserID)
		return err
	})
	if err != nil {
		return domain.MisinformationFlag{}, err
	}

	s.board.Invalidate(ctx)
	s.feed.Publish(domain.NewArticleUpdate(article, s.now()))
	return flag, nil
}

// FlagsForArticle lists flags against an article, newest first.
func (s *FlagService) FlagsForArticle(ctx context.Context, articleID int64) ([]domain.MisinformationFlag, error) {
	if _, err := s.store.GetArticle(ctx, articleID); err != nil {
		return nil, err
	}
	return s.store.FlagsByArticle(ctx, articleID)
}
