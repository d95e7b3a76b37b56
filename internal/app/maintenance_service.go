package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"news-credibility-service/internal/aggregate"
)

// RecomputeSummary counts the entities rebuilt by RecomputeAll.
type RecomputeSummary struct {
	Articles int
	Users    int
}

// MaintenanceService rebuilds every derived field from stored responses.
type MaintenanceService struct {
	store   Store
	board   LeaderboardCache
	workers int
	now     func() time.Time
}

func NewMaintenanceService(store Store, board LeaderboardCache, workers int) *MaintenanceService {
	if workers <= 0 {
		workers = 4
	}
	return &MaintenanceService{store: store, board: board, workers: workers, now: time.Now}
}

// RecomputeAll re-aggregates every article and user, each in its own transaction.
func (s *MaintenanceService) RecomputeAll(ctx context.Context) (RecomputeSummary, error) {
	articleIDs, err := s.store.ArticleIDs(ctx)
	if err != nil {
		return RecomputeSummary{}, fmt.Errorf("list articles: %w", err)
	}
	userIDs, err := s.store.UserIDs(ctx)
	if err != nil {
		return RecomputeSummary{}, fmt.Errorf("list users: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, id := range articleIDs {
		id := id
		g.Go(func() error {
			return s.store.RunInTx(gctx, func(ctx context.Context, repo Repository) error {
				_, err := aggregate.NewWithClock(repo, s.now).RecomputeArticle(ctx, id)
				return err
			})
		})
	}
	for _, id := range userIDs {
		id := id
		g.Go(func() error {
			return s.store.RunInTx(gctx, func(ctx context.Context, repo Repository) error {
				_, err := aggregate.NewWithClock(repo, s.now).RecomputeUser(ctx, id)
				return err
			})
		})
	}
	if err := g.Wait(); err != nil {
		return RecomputeSummary{}, err
	}

	s.board.Invalidate(ctx)
	log.Printf("recomputed %d articles and %d users", len(articleIDs), len(userIDs))
	return RecomputeSummary{Articles: len(articleIDs), Users: len(userIDs)}, nil
}
