// Package achievements derives unlocked badges from a user's aggregate statistics.
package achievements

import (
	"fmt"

	"news-credibility-service/internal/domain"
)

// Category groups badges by the statistic they track.
type Category string

const (
	CategoryQuizzes  Category = "quizzes"
	CategoryAccuracy Category = "accuracy"
	CategoryFlags    Category = "flags"
	CategoryStreak   Category = "streak"
)

// Icon returns the display icon for the category.
func (c Category) Icon() string {
	switch c {
	case CategoryQuizzes:
		return "📰"
	case CategoryAccuracy:
		return "🎯"
	case CategoryFlags:
		return "🚩"
	case CategoryStreak:
		return "🔥"
	default:
		return "✦"
	}
}

// Badge describes an unlocked achievement. ID is stable; the rest is display metadata.
type Badge struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Threshold   int      `json:"threshold"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
}

type tier struct {
	threshold   int
	name        string
	description string
}

var (
	quizTiers = []tier{
		{1, "First Steps", "Completed your first quiz"},
		{5, "Curious Reader", "Completed 5 quizzes"},
		{10, "News Hound", "Completed 10 quizzes"},
		{25, "Fact Finder", "Completed 25 quizzes"},
		{50, "Truth Seeker", "Completed 50 quizzes"},
	}
	accuracyTiers = []tier{
		{70, "Sharp Eye", "Reached 70% accuracy"},
		{80, "Keen Analyst", "Reached 80% accuracy"},
		{90, "Fact Checker", "Reached 90% accuracy"},
		{95, "Master Verifier", "Reached 95% accuracy"},
	}
	flagTiers = []tier{
		{1, "Watchdog", "Flagged your first article"},
		{5, "Guardian", "Flagged 5 articles"},
		{10, "Sentinel", "Flagged 10 articles"},
	}
	streakTiers = []tier{
		{3, "On a Roll", "Took quizzes 3 days in a row"},
		{7, "Weekly Habit", "Took quizzes 7 days in a row"},
		{14, "Unstoppable", "Took quizzes 14 days in a row"},
	}
)

// Evaluate returns every badge the statistics qualify for. Tiers are cumulative:
// reaching a higher threshold keeps the lower ones.
func Evaluate(stats domain.UserStats, streakDays int) []Badge {
	var badges []Badge
	badges = unlock(badges, CategoryQuizzes, quizTiers, float64(stats.TotalQuizzesTaken))
	badges = unlock(badges, CategoryAccuracy, accuracyTiers, stats.AccuracyRate)
	badges = unlock(badges, CategoryFlags, flagTiers, float64(stats.ArticlesFlagged))
	badges = unlock(badges, CategoryStreak, streakTiers, float64(streakDays))
	return badges
}

// All lists every badge that can be earned, in display order.
func All() []Badge {
	var badges []Badge
	for _, group := range []struct {
		category Category
		tiers    []tier
	}{
		{CategoryQuizzes, quizTiers},
		{CategoryAccuracy, accuracyTiers},
		{CategoryFlags, flagTiers},
		{CategoryStreak, streakTiers},
	} {
		for _, t := range group.tiers {
			badges = append(badges, newBadge(group.category, t))
		}
	}
	return badges
}

func unlock(badges []Badge, category Category, tiers []tier, value float64) []Badge {
	for _, t := range tiers {
		if value >= float64(t.threshold) {
			badges = append(badges, newBadge(category, t))
		}
	}
	return badges
}

func newBadge(category Category, t tier) Badge {
	return Badge{
		ID:          fmt.Sprintf("%s_%d", category, t.threshold),
		Category:    category,
		Threshold:   t.threshold,
		Name:        t.name,
		Description: t.description,
		Icon:        category.Icon(),
	}
}

// IDs extracts badge identifiers in order.
func IDs(badges []Badge) []string {
	ids := make([]string, len(badges))
	for i, b := range badges {
		ids[i] = b.ID
	}
	return ids
}
