package app

import (
	"context"
	"fmt"

	"news-credibility-service/internal/achievements"
	"news-credibility-service/internal/aggregate"
	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/leaderboard"
)

// ArticleStatistics summarizes the crowd's view of an article.
type ArticleStatistics struct {
	ArticleID           int64                   `json:"articleId"`
	URL                 string                  `json:"url"`
	TotalUsersAnalyzed  int                     `json:"totalUsersAnalyzed"`
	CredibilityScore    float64                 `json:"credibilityScore"`
	AvgUserConfidence   float64                 `json:"avgUserConfidence"`
	MisinformationFlags int                     `json:"misinformationFlags"`
	CredibleFlags       int                     `json:"credibleFlags"`
	Consensus           domain.ArticleConsensus `json:"consensus"`
}

// UserStatistics is a user's profile: aggregates, streak, badges and rank.
type UserStatistics struct {
	UserID            int64                    `json:"userId"`
	DisplayName       string                   `json:"displayName"`
	Stats             domain.UserStats         `json:"stats"`
	StreakDays        int                      `json:"streakDays"`
	Badges            []achievements.Badge     `json:"badges"`
	Rank              int                      `json:"rank,omitempty"`
	Ranked            bool                     `json:"ranked"`
	ContributionLevel domain.ContributionLevel `json:"contributionLevel"`
}

// StatsOptions tunes the article ranking queries.
type StatsOptions struct {
	MostCredibleMinResponses int
}

// StatsService serves read-side views over the aggregates.
type StatsService struct {
	repo  Repository
	board LeaderboardCache
	opts  StatsOptions
}

func NewStatsService(repo Repository, board LeaderboardCache, opts StatsOptions) *StatsService {
	if opts.MostCredibleMinResponses <= 0 {
		opts.MostCredibleMinResponses = 3
	}
	return &StatsService{repo: repo, board: board, opts: opts}
}

// ArticleStatistics reports the article's credibility and consensus. Articles
// without responses report not_enough_data.
func (s *StatsService) ArticleStatistics(ctx context.Context, articleID int64) (ArticleStatistics, error) {
	article, err := s.repo.GetArticle(ctx, articleID)
	if err != nil {
		return ArticleStatistics{}, err
	}
	responses, err := s.repo.ResponsesByArticle(ctx, articleID)
	if err != nil {
		return ArticleStatistics{}, fmt.Errorf("responses for article %d: %w", articleID, err)
	}

	stats := ArticleStatistics{ArticleID: article.ID, URL: article.URL}
	if len(responses) == 0 {
		stats.Consensus = domain.ArticleConsensusNotEnoughData
		return stats, nil
	}

	confidence := 0
	for _, r := range responses {
		confidence += r.ConfidenceLevel
		if r.FlaggedAsMisinformation {
			stats.MisinformationFlags++
		}
	}
	stats.TotalUsersAnalyzed = len(responses)
	stats.CredibilityScore = article.CredibilityScore
	stats.AvgUserConfidence = float64(confidence) / float64(len(responses))
	stats.CredibleFlags = len(responses) - stats.MisinformationFlags
	stats.Consensus = domain.ArticleConsensusFor(article.CredibilityScore)
	return stats, nil
}

// UserStatistics builds the profile view for a user.
func (s *StatsService) UserStatistics(ctx context.Context, userID int64) (UserStatistics, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return UserStatistics{}, err
	}
	responses, err := s.repo.ResponsesByUser(ctx, userID)
	if err != nil {
		return UserStatistics{}, fmt.Errorf("responses for user %d: %w", userID, err)
	}
	entries, err := s.entries(ctx)
	if err != nil {
		return UserStatistics{}, err
	}

	streak := aggregate.Streak(responses)
	rank, ranked := leaderboard.RankOf(entries, userID)
	return UserStatistics{
		UserID:            user.ID,
		DisplayName:       leaderboard.DisplayName(user),
		Stats:             user.Stats,
		StreakDays:        streak,
		Badges:            achievements.Evaluate(user.Stats, streak),
		Rank:              rank,
		Ranked:            ranked,
		ContributionLevel: domain.ContributionLevelFor(user.Stats),
	}, nil
}

// Leaderboard returns the top limit users; a non-positive limit returns all.
func (s *StatsService) Leaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	return leaderboard.Top(entries, limit), nil
}

// TopFlaggedArticles orders articles by misinformation flags.
func (s *StatsService) TopFlaggedArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	return s.repo.TopFlaggedArticles(ctx, limit)
}

// MostCredibleArticles orders sufficiently reviewed articles by credibility.
func (s *StatsService) MostCredibleArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	return s.repo.MostCredibleArticles(ctx, s.opts.MostCredibleMinResponses, limit)
}

func (s *StatsService) entries(ctx context.Context) ([]leaderboard.Entry, error) {
	if cached, ok := s.board.Get(ctx); ok {
		return cached, nil
	}
	users, err := s.repo.EligibleUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("eligible users: %w", err)
	}
	entries := leaderboard.Build(users)
	s.board.Set(ctx, entries)
	return entries, nil
}
