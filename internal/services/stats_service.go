package services

import (
	"context"
	"errors"
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
)

var ErrUnknownStatsPeriod = errors.New("unknown statistics period")

type StatsSessionReader interface {
	FindChild(ctx context.Context, childID string) (models.ChildProfile, error)
	LoadSessions(ctx context.Context, filter SessionFilter) ([]models.SleepSession, error)
}

type WeekdayNamer interface {
	WeekdayName(language string, weekday time.Weekday) string
}

type StatsService struct {
	sessions StatsSessionReader
	weekdays WeekdayNamer
	location *time.Location
}

func NewStatsService(sessions StatsSessionReader, weekdays WeekdayNamer, location *time.Location) *StatsService {
	if location == nil {
		location = time.UTC
	}
	return &StatsService{
		sessions: sessions,
		weekdays: weekdays,
		location: location,
	}
}

func (service *StatsService) BuildForPeriod(ctx context.Context, childID string, period string, language string, now time.Time) (SleepStatistics, error) {
	from, to, ok := PeriodWindow(period, now)
	if !ok {
		return SleepStatistics{}, ErrUnknownStatsPeriod
	}
	if _, err := service.sessions.FindChild(ctx, childID); err != nil {
		return SleepStatistics{}, err
	}

	sessions, err := service.sessions.LoadSessions(ctx, SessionFilter{ChildID: childID, From: from, To: &to})
	if err != nil {
		return SleepStatistics{}, err
	}

	var weekdayName func(time.Weekday) string
	if service.weekdays != nil {
		weekdayName = func(weekday time.Weekday) string {
			return service.weekdays.WeekdayName(language, weekday)
		}
	}
	return ComputeStatistics(sessions, period, weekdayName, service.location), nil
}
