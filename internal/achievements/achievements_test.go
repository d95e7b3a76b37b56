package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"news-credibility-service/internal/domain"
)

func TestEvaluateCumulativeTiers(t *testing.T) {
	badges := Evaluate(domain.UserStats{TotalQuizzesTaken: 10, AccuracyRate: 92}, 0)
	assert.Equal(t, []string{
		"quizzes_1", "quizzes_5", "quizzes_10",
		"accuracy_70", "accuracy_80", "accuracy_90",
	}, IDs(badges))
}

func TestEvaluateAllAccuracyBadgesAt96(t *testing.T) {
	badges := Evaluate(domain.UserStats{TotalQuizzesTaken: 1, AccuracyRate: 96}, 0)
	assert.Equal(t, []string{
		"quizzes_1",
		"accuracy_70", "accuracy_80", "accuracy_90", "accuracy_95",
	}, IDs(badges))
}

func TestEvaluateFlagsAndStreak(t *testing.T) {
	badges := Evaluate(domain.UserStats{ArticlesFlagged: 5}, 14)
	assert.Equal(t, []string{
		"flags_1", "flags_5",
		"streak_3", "streak_7", "streak_14",
	}, IDs(badges))
}

func TestEvaluateNothing(t *testing.T) {
	assert.Empty(t, Evaluate(domain.UserStats{AccuracyRate: 69.9}, 2))
}

func TestAllHasUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range All() {
		assert.False(t, seen[b.ID], "duplicate badge %s", b.ID)
		seen[b.ID] = true
		assert.NotEmpty(t, b.Name)
	}
	assert.Len(t, seen, 15)
}
