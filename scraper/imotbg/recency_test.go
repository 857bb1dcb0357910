package imotbg

import (
	"testing"
	"time"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
)

func TestIsWithinDuration(t *testing.T) {
	now := time.Date(2025, time.July, 17, 10, 0, 0, 0, time.Local)
	lateEvening := time.Date(2025, time.July, 17, 23, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		date     time.Time
		now      time.Time
		duration models.Duration
		want     bool
	}{
		{
			name:     "48h window includes 47h old listing",
			date:     time.Date(2025, time.July, 15, 11, 0, 0, 0, time.Local),
			now:      now,
			duration: models.DurationLast48h,
			want:     true,
		},
		{
			name:     "48h window excludes 49h old listing",
			date:     time.Date(2025, time.July, 15, 9, 0, 0, 0, time.Local),
			now:      now,
			duration: models.DurationLast48h,
			want:     false,
		},
		{
			name:     "today includes just after midnight",
			date:     time.Date(2025, time.July, 17, 0, 1, 0, 0, time.Local),
			now:      lateEvening,
			duration: models.DurationToday,
			want:     true,
		},
		{
			name:     "today excludes just before midnight",
			date:     time.Date(2025, time.July, 16, 23, 59, 0, 0, time.Local),
			now:      lateEvening,
			duration: models.DurationToday,
			want:     false,
		},
		{
			name:     "yesterday includes previous calendar day",
			date:     time.Date(2025, time.July, 16, 23, 59, 0, 0, time.Local),
			now:      lateEvening,
			duration: models.DurationYesterday,
			want:     true,
		},
		{
			name:     "yesterday excludes today",
			date:     time.Date(2025, time.July, 17, 0, 1, 0, 0, time.Local),
			now:      lateEvening,
			duration: models.DurationYesterday,
			want:     false,
		},
		{
			name:     "yesterday excludes two days ago",
			date:     time.Date(2025, time.July, 15, 12, 0, 0, 0, time.Local),
			now:      lateEvening,
			duration: models.DurationYesterday,
			want:     false,
		},
		{
			name:     "2h window is continuous, not calendar aligned",
			date:     now.Add(-119 * time.Minute),
			now:      now,
			duration: models.DurationLast2h,
			want:     true,
		},
		{
			name:     "2h window excludes 121 minutes",
			date:     now.Add(-121 * time.Minute),
			now:      now,
			duration: models.DurationLast2h,
			want:     false,
		},
		{
			name:     "6h boundary is inclusive",
			date:     now.Add(-6 * time.Hour),
			now:      now,
			duration: models.DurationLast6h,
			want:     true,
		},
		{
			name:     "24h window",
			date:     now.Add(-25 * time.Hour),
			now:      now,
			duration: models.DurationLast24h,
			want:     false,
		},
		{
			name:     "future listing is always out",
			date:     now.Add(time.Minute),
			now:      now,
			duration: models.DurationToday,
			want:     false,
		},
		{
			name:     "unknown duration behaves as last48h",
			date:     now.Add(-47 * time.Hour),
			now:      now,
			duration: models.Duration("bogus"),
			want:     true,
		},
		{
			name:     "unknown duration still bounded at 48h",
			date:     now.Add(-49 * time.Hour),
			now:      now,
			duration: models.Duration("bogus"),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWithinDuration(tt.date, tt.now, tt.duration); got != tt.want {
				t.Errorf("isWithinDuration(%v, %v, %q) = %v, want %v",
					tt.date, tt.now, tt.duration, got, tt.want)
			}
		})
	}
}
