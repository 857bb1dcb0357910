package imotbg

import (
	"time"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
)

// startOfDay truncates to local wall-clock midnight. The site publishes in
// its own locale, so day boundaries must not use UTC midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isWithinDuration reports whether a listing timestamp falls inside the
// requested recency window relative to now. Future timestamps are treated as
// invalid. The hour windows are continuous spans; today and yesterday align
// to local calendar days. An unrecognized duration behaves as last48h.
func isWithinDuration(date, now time.Time, duration models.Duration) bool {
	diff := now.Sub(date)
	if diff < 0 {
		return false
	}

	switch duration {
	case models.DurationToday:
		return !date.Before(startOfDay(now))
	case models.DurationYesterday:
		todayStart := startOfDay(now)
		yesterdayStart := todayStart.Add(-24 * time.Hour)
		return !date.Before(yesterdayStart) && date.Before(todayStart)
	case models.DurationLast2h:
		return diff <= 2*time.Hour
	case models.DurationLast6h:
		return diff <= 6*time.Hour
	case models.DurationLast24h:
		return diff <= 24*time.Hour
	default:
		return diff <= 48*time.Hour
	}
}
