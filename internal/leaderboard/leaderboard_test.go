package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-credibility-service/internal/domain"
)

func user(id int64, name string, anon bool, quizzes int, acc float64) domain.User {
	return domain.User{
		ID:          id,
		Identifier:  name,
		IsAnonymous: anon,
		Stats:       domain.UserStats{TotalQuizzesTaken: quizzes, AccuracyRate: acc},
	}
}

func TestBuildUsesUnnormalizedComposite(t *testing.T) {
	entries := Build([]domain.User{
		user(2, "bea", false, 4, 90),
		user(1, "ada", false, 10, 50),
	})
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].UserID)
	assert.Equal(t, 500.0, entries[0].CompositeScore)
	assert.Equal(t, int64(2), entries[1].UserID)
	assert.Equal(t, 360.0, entries[1].CompositeScore)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestBuildSkipsIneligibleAndKeepsTieOrder(t *testing.T) {
	entries := Build([]domain.User{
		user(5, "eve", false, 2, 50),
		user(6, "fay", false, 0, 0),
		user(7, "gus", false, 1, 100),
		user(8, "hal", false, 4, 25),
	})
	require.Len(t, entries, 3)
	assert.Equal(t, []int64{5, 7, 8}, []int64{entries[0].UserID, entries[1].UserID, entries[2].UserID})

	rank, ok := RankOf(entries, 8)
	assert.True(t, ok)
	assert.Equal(t, 3, rank)

	_, ok = RankOf(entries, 6)
	assert.False(t, ok)
}

func TestAnonymousUsersAreMasked(t *testing.T) {
	entries := Build([]domain.User{user(42, "anon_1a2b3c4d5e", true, 1, 100)})
	require.Len(t, entries, 1)
	assert.Equal(t, "Anonymous #42", entries[0].DisplayName)
}

func TestTop(t *testing.T) {
	entries := Build([]domain.User{
		user(1, "a", false, 3, 10),
		user(2, "b", false, 2, 10),
		user(3, "c", false, 1, 10),
	})
	assert.Len(t, Top(entries, 2), 2)
	assert.Len(t, Top(entries, 0), 3)
	assert.Len(t, Top(entries, 10), 3)
}
