package services

import (
	"math"
	"time"
)

const minutesPerDay = 24 * 60

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// MinuteOfDay returns the wall-clock minute (0..1439) of value in location.
func MinuteOfDay(value time.Time, location *time.Location) float64 {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	return float64(localized.Hour()*60+localized.Minute()) + float64(localized.Second())/60
}

// CircularMeanMinute averages clock minutes on the 24h circle, so 23:30 and 00:30 average to 00:00.
// ok is false when there is no input or the values cancel out.
func CircularMeanMinute(minutes []float64) (float64, bool) {
	sumSin, sumCos, resultant := circularComponents(minutes)
	if len(minutes) == 0 || resultant < 1e-9 {
		return 0, false
	}
	angle := math.Atan2(sumSin, sumCos)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle * minutesPerDay / (2 * math.Pi), true
}

// CircularStdDevMinutes is the circular standard deviation of clock minutes, expressed in minutes.
func CircularStdDevMinutes(minutes []float64) float64 {
	if len(minutes) < 2 {
		return 0
	}
	_, _, resultant := circularComponents(minutes)
	if resultant >= 1 {
		return 0
	}
	if resultant < 1e-9 {
		return minutesPerDay / 2
	}
	return math.Sqrt(-2*math.Log(resultant)) * minutesPerDay / (2 * math.Pi)
}

func circularComponents(minutes []float64) (float64, float64, float64) {
	if len(minutes) == 0 {
		return 0, 0, 0
	}
	sumSin, sumCos := 0.0, 0.0
	for _, minute := range minutes {
		angle := minute * 2 * math.Pi / minutesPerDay
		sumSin += math.Sin(angle)
		sumCos += math.Cos(angle)
	}
	count := float64(len(minutes))
	resultant := math.Hypot(sumSin/count, sumCos/count)
	return sumSin, sumCos, resultant
}

// Elapsed is the running time of an in-progress session. It never goes negative.
func Elapsed(now time.Time, start time.Time) time.Duration {
	if now.Before(start) {
		return 0
	}
	return now.Sub(start)
}

func FormatHoursMinutes(value time.Duration) (int, int) {
	if value < 0 {
		value = -value
	}
	totalMinutes := int(value.Round(time.Minute) / time.Minute)
	return totalMinutes / 60, totalMinutes % 60
}
