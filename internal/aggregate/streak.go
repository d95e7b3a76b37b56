package aggregate

import (
	"sort"
	"time"

	"news-credibility-service/internal/domain"
)

const day = 24 * time.Hour

// Streak counts consecutive calendar days (UTC) with at least one completed
// response, ending at the most recent such day.
func Streak(responses []domain.UserResponse) int {
	if len(responses) == 0 {
		return 0
	}
	seen := make(map[time.Time]struct{}, len(responses))
	days := make([]time.Time, 0, len(responses))
	for _, r := range responses {
		d := calendarDay(r.CompletedAt)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != day {
			break
		}
		streak++
	}
	return streak
}

func calendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
