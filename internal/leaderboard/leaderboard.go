// Package leaderboard orders users by quizzes taken times accuracy.
package leaderboard

import (
	"fmt"
	"sort"

	"news-credibility-service/internal/domain"
)

// Entry is one ranked user.
type Entry struct {
	Rank            int     `json:"rank"`
	UserID          int64   `json:"userId"`
	DisplayName     string  `json:"displayName"`
	IsAnonymous     bool    `json:"isAnonymous"`
	QuizzesTaken    int     `json:"quizzesTaken"`
	AccuracyRate    float64 `json:"accuracyRate"`
	ArticlesFlagged int     `json:"articlesFlagged"`
	CompositeScore  float64 `json:"compositeScore"`
}

// CompositeScore is quizzes taken times accuracy. It is deliberately not
// normalized: more quizzes at equal accuracy always rank higher.
func CompositeScore(stats domain.UserStats) float64 {
	return float64(stats.TotalQuizzesTaken) * stats.AccuracyRate
}

// Eligible reports whether the user has taken at least one quiz.
func Eligible(u domain.User) bool {
	return u.Stats.TotalQuizzesTaken >= 1
}

// DisplayName masks anonymous users.
func DisplayName(u domain.User) string {
	if u.IsAnonymous {
		return fmt.Sprintf("Anonymous #%d", u.ID)
	}
	return u.Identifier
}

// Build ranks eligible users by composite score, descending. Ties keep the
// input order.
func Build(users []domain.User) []Entry {
	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		if !Eligible(u) {
			continue
		}
		entries = append(entries, Entry{
			UserID:          u.ID,
			DisplayName:     DisplayName(u),
			IsAnonymous:     u.IsAnonymous,
			QuizzesTaken:    u.Stats.TotalQuizzesTaken,
			AccuracyRate:    u.Stats.AccuracyRate,
			ArticlesFlagged: u.Stats.ArticlesFlagged,
			CompositeScore:  CompositeScore(u.Stats),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompositeScore > entries[j].CompositeScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// RankOf returns the 1-based position of userID, or false when unranked.
func RankOf(entries []Entry, userID int64) (int, bool) {
	for _, e := range entries {
		if e.UserID == userID {
			return e.Rank, true
		}
	}
	return 0, false
}

// Top returns at most limit entries. A non-positive limit returns everything.
func Top(entries []Entry, limit int) []Entry {
	if limit <= 0 || limit >= len(entries) {
		return entries
	}
	return entries[:limit]
}
