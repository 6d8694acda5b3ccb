package services

import (
	"fmt"
	"math"
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
)

const (
	scheduleWindow                 = 7 * 24 * time.Hour
	earlyWakeMinute                = 6 * 60
	wakeWindowStartMinute          = 3 * 60
	wakeWindowEndMinute            = 12 * 60
	bedtimeWindowStartMinute       = 18 * 60
	bedtimeWindowEndMinute         = 3 * 60
	bedtimeVariabilityLimitMinutes = 30.0
	minBedtimeSamples              = 3
	nightStartMinute               = 20 * 60
	nightEndMinute                 = 6 * 60
	nightSessionShareLimit         = 0.5
	nightStretchesPerNightLimit    = 2.0
	poorQualityShareLimit          = 0.30
)

type weeklySleepSummary struct {
	sessionCount      int
	averageDaily      time.Duration
	wakeMeanMinute    float64
	hasWakeMean       bool
	bedtimeStdMinutes float64
	hasBedtimeSpread  bool
}

type sleepQualitySummary struct {
	sessionCount       int
	nightShare         float64
	stretchesPerNight  float64
	poorQualityShare   float64
	poorQualitySamples int
}

// summarizeWeek looks at sessions that ended within the last seven days.
// Average daily sleep divides by the number of distinct days that have sessions.
func summarizeWeek(sessions []models.SleepSession, now time.Time, location *time.Location) weeklySleepSummary {
	windowStart := now.Add(-scheduleWindow)
	days := make(map[time.Time]struct{})
	wakeMinutes := make([]float64, 0)
	bedtimeMinutes := make([]float64, 0)
	summary := weeklySleepSummary{}
	var total time.Duration

	for _, session := range sessions {
		if session.EndTime.Before(windowStart) || session.EndTime.After(now) {
			continue
		}
		summary.sessionCount++
		total += session.Duration()
		days[DateAtLocation(session.EndTime, location)] = struct{}{}

		endMinute := MinuteOfDay(session.EndTime, location)
		if endMinute >= wakeWindowStartMinute && endMinute < wakeWindowEndMinute {
			wakeMinutes = append(wakeMinutes, endMinute)
		}
		startMinute := MinuteOfDay(session.StartTime, location)
		if startMinute >= bedtimeWindowStartMinute || startMinute < bedtimeWindowEndMinute {
			bedtimeMinutes = append(bedtimeMinutes, startMinute)
		}
	}

	if len(days) > 0 {
		summary.averageDaily = total / time.Duration(len(days))
	}
	summary.wakeMeanMinute, summary.hasWakeMean = CircularMeanMinute(wakeMinutes)
	if len(bedtimeMinutes) >= minBedtimeSamples {
		summary.bedtimeStdMinutes = CircularStdDevMinutes(bedtimeMinutes)
		summary.hasBedtimeSpread = true
	}
	return summary
}

func summarizeQuality(sessions []models.SleepSession, location *time.Location) sleepQualitySummary {
	summary := sleepQualitySummary{sessionCount: len(sessions)}
	if len(sessions) == 0 {
		return summary
	}

	nights := make(map[time.Time]int)
	nightSessions := 0
	poor := 0
	for _, session := range sessions {
		if IsNightSession(session, location) {
			nightSessions++
			nights[DateAtLocation(session.StartTime.Add(-12*time.Hour), location)]++
		}
		if session.IsPoorQuality() {
			poor++
		}
	}

	count := float64(len(sessions))
	summary.nightShare = float64(nightSessions) / count
	if len(nights) > 0 {
		summary.stretchesPerNight = float64(nightSessions) / float64(len(nights))
	}
	summary.poorQualityShare = float64(poor) / count
	summary.poorQualitySamples = poor
	return summary
}

// IsNightSession reports whether both ends of the session fall in the 20:00-06:00 window.
func IsNightSession(session models.SleepSession, location *time.Location) bool {
	return isNightMinute(MinuteOfDay(session.StartTime, location)) && isNightMinute(MinuteOfDay(session.EndTime, location))
}

func isNightMinute(minute float64) bool {
	return minute >= nightStartMinute || minute < nightEndMinute
}

func scheduleDrafts(band AgeBand, summary weeklySleepSummary) []recommendationDraft {
	if summary.sessionCount == 0 {
		return nil
	}

	drafts := make([]recommendationDraft, 0, 4)
	minimum := time.Duration(band.MinSleepHours) * time.Hour
	maximum := time.Duration(band.MaxSleepHours) * time.Hour
	averageHours, averageMinutes := FormatHoursMinutes(summary.averageDaily)

	if summary.averageDaily < minimum {
		deficitHours, deficitMinutes := FormatHoursMinutes(minimum - summary.averageDaily)
		drafts = append(drafts, recommendationDraft{
			key:      "insufficient_sleep",
			category: CategorySchedule,
			priority: PriorityHigh,
			args:     []any{averageHours, averageMinutes, deficitHours, deficitMinutes, band.MinSleepHours, band.MaxSleepHours},
			conditions: []string{
				fmt.Sprintf("average_daily_sleep<%dh", band.MinSleepHours),
			},
		})
	}
	if summary.averageDaily > maximum {
		drafts = append(drafts, recommendationDraft{
			key:      "excess_sleep",
			category: CategoryHealth,
			priority: PriorityMedium,
			args:     []any{averageHours, averageMinutes, band.MinSleepHours, band.MaxSleepHours},
			conditions: []string{
				fmt.Sprintf("average_daily_sleep>%dh", band.MaxSleepHours),
			},
		})
	}
	if summary.hasWakeMean && summary.wakeMeanMinute < earlyWakeMinute {
		wake := int(math.Round(summary.wakeMeanMinute))
		drafts = append(drafts, recommendationDraft{
			key:        "early_waking",
			category:   CategorySchedule,
			priority:   PriorityMedium,
			args:       []any{wake / 60, wake % 60},
			conditions: []string{"average_wake_time<06:00"},
		})
	}
	if summary.hasBedtimeSpread && summary.bedtimeStdMinutes > bedtimeVariabilityLimitMinutes {
		drafts = append(drafts, recommendationDraft{
			key:        "irregular_bedtime",
			category:   CategoryRoutine,
			priority:   PriorityMedium,
			args:       []any{int(math.Round(summary.bedtimeStdMinutes))},
			conditions: []string{fmt.Sprintf("bedtime_stddev>%.0fm", bedtimeVariabilityLimitMinutes)},
		})
	}
	return drafts
}

func qualityDrafts(summary sleepQualitySummary) []recommendationDraft {
	if summary.sessionCount == 0 {
		return nil
	}

	drafts := make([]recommendationDraft, 0, 2)
	if summary.nightShare > nightSessionShareLimit && summary.stretchesPerNight > nightStretchesPerNightLimit {
		drafts = append(drafts, recommendationDraft{
			key:      "frequent_night_wakings",
			category: CategoryHealth,
			priority: PriorityMedium,
			soundID:  "heartbeat",
			args:     []any{summary.stretchesPerNight},
			conditions: []string{
				fmt.Sprintf("night_session_share>%.0f%%", nightSessionShareLimit*100),
				fmt.Sprintf("night_stretches_per_night>%.0f", nightStretchesPerNightLimit),
			},
		})
	}
	if summary.poorQualityShare > poorQualityShareLimit {
		drafts = append(drafts, recommendationDraft{
			key:        "low_sleep_quality",
			category:   CategoryHealth,
			priority:   PriorityHigh,
			args:       []any{int(math.Round(summary.poorQualityShare * 100))},
			conditions: []string{fmt.Sprintf("poor_quality_share>%.0f%%", poorQualityShareLimit*100)},
		})
	}
	return drafts
}
