package cli

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/config"
	"news-credibility-service/internal/infra/memory"
	"news-credibility-service/internal/infra/postgres"
	infraredis "news-credibility-service/internal/infra/redis"
)

// deps holds the wired storage and caches. Postgres and Redis are used when
// configured; otherwise everything runs in memory with sample data.
type deps struct {
	store   app.Store
	quizzes app.QuizRepository
	board   app.LeaderboardCache
	closers []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	var loader memory.QuizLoader
	if cfg.Postgres.URL != "" {
		db := openBunDB(cfg.Postgres.URL)
		d.closers = append(d.closers, func() { _ = db.Close() })
		if err := migrateDB(ctx, db); err != nil {
			d.Close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, pool.Close)
		d.store = postgres.NewStore(db)
		loader = postgres.NewQuizLoader(pool)
	} else {
		store := memory.NewStore()
		if err := seedSampleData(ctx, store); err != nil {
			d.Close()
			return nil, err
		}
		log.Printf("postgres not configured; using in-memory store with sample data")
		d.store = store
		loader = store
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	boardTTL := config.TTLDuration(cfg.Leaderboard.TTL, config.TTLDuration(cfg.Redis.TTL, time.Minute))
	if redisClient != nil {
		d.quizzes = infraredis.NewQuizRepository(redisClient, loader, quizTTL)
		d.board = infraredis.NewLeaderboardCache(redisClient, boardTTL)
	} else {
		d.quizzes = memory.NewQuizRepository(loader, quizTTL)
		d.board = memory.NewLeaderboardCache(boardTTL)
	}
	return d, nil
}
