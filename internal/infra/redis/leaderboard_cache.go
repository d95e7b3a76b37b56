package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"news-credibility-service/internal/leaderboard"
)

const leaderboardKey = "leaderboard:entries"

// LeaderboardCache shares the computed leaderboard across instances. Cache
// failures are logged and treated as misses.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

func (c *LeaderboardCache) Get(ctx context.Context) ([]leaderboard.Entry, bool) {
	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("leaderboard cache get: %v", err)
		}
		return nil, false
	}
	var entries []leaderboard.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Printf("leaderboard cache decode: %v", err)
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, entries []leaderboard.Entry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		log.Printf("leaderboard cache encode: %v", err)
		return
	}
	if err := c.client.Set(ctx, leaderboardKey, raw, c.ttl).Err(); err != nil {
		log.Printf("leaderboard cache set: %v", err)
	}
}

func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		log.Printf("leaderboard cache invalidate: %v", err)
	}
}
