package services

import (
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
)

const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

type SleepStatistics struct {
	Period          string                   `json:"period"`
	SessionCount    int                      `json:"session_count"`
	TotalDuration   time.Duration            `json:"total_duration"`
	AverageDuration time.Duration            `json:"average_duration"`
	AverageQuality  float64                  `json:"average_quality"`
	Longest         *models.SleepSession     `json:"longest,omitempty"`
	Shortest        *models.SleepSession     `json:"shortest,omitempty"`
	ByWeekday       map[string]time.Duration `json:"by_weekday"`
}

// ComputeStatistics aggregates sessions. It is pure: the same input always yields the same output.
// Ties for longest and shortest keep the first session in input order.
func ComputeStatistics(sessions []models.SleepSession, period string, weekdayName func(time.Weekday) string, location *time.Location) SleepStatistics {
	if weekdayName == nil {
		weekdayName = func(weekday time.Weekday) string { return weekday.String() }
	}
	if location == nil {
		location = time.UTC
	}

	stats := SleepStatistics{
		Period:       period,
		SessionCount: len(sessions),
		ByWeekday:    make(map[string]time.Duration),
	}
	if len(sessions) == 0 {
		return stats
	}

	qualitySum := 0
	qualityCount := 0
	longestIndex, shortestIndex := 0, 0
	for index, session := range sessions {
		duration := session.Duration()
		stats.TotalDuration += duration

		if session.Quality != nil {
			qualitySum += *session.Quality
			qualityCount++
		}
		if duration > sessions[longestIndex].Duration() {
			longestIndex = index
		}
		if duration < sessions[shortestIndex].Duration() {
			shortestIndex = index
		}

		stats.ByWeekday[weekdayName(session.StartTime.In(location).Weekday())] += duration
	}

	stats.AverageDuration = stats.TotalDuration / time.Duration(len(sessions))
	if qualityCount > 0 {
		stats.AverageQuality = float64(qualitySum) / float64(qualityCount)
	}
	longest := sessions[longestIndex]
	shortest := sessions[shortestIndex]
	stats.Longest = &longest
	stats.Shortest = &shortest
	return stats
}

// PeriodWindow returns the inclusive end-time window for a period label. A nil start means unbounded.
func PeriodWindow(period string, now time.Time) (*time.Time, time.Time, bool) {
	var start time.Time
	switch period {
	case PeriodDay:
		start = now.Add(-24 * time.Hour)
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		start = now.AddDate(0, 0, -30)
	case PeriodYear:
		start = now.AddDate(0, 0, -365)
	case PeriodAll:
		return nil, now, true
	default:
		return nil, now, false
	}
	return &start, now, true
}
