package memory

import (
	"context"
	"sync"
	"time"

	"news-credibility-service/internal/leaderboard"
)

// LeaderboardCache is an in-memory implementation of app.LeaderboardCache.
type LeaderboardCache struct {
	ttl   time.Duration
	clock func() time.Time

	mu        sync.RWMutex
	entries   []leaderboard.Entry
	expiresAt time.Time
	valid     bool
}

func NewLeaderboardCache(ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{ttl: ttl, clock: time.Now}
}

func (c *LeaderboardCache) Get(_ context.Context) ([]leaderboard.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid || (c.ttl > 0 && !c.expiresAt.After(c.clock())) {
		return nil, false
	}
	out := make([]leaderboard.Entry, len(c.entries))
	copy(out, c.entries)
	return out, true
}

func (c *LeaderboardCache) Set(_ context.Context, entries []leaderboard.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make([]leaderboard.Entry, len(entries))
	copy(c.entries, entries)
	c.expiresAt = c.clock().Add(c.ttl)
	c.valid = true
}

func (c *LeaderboardCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.valid = false
}
