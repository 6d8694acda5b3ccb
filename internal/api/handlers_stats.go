package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lullaby/internal/services"
)

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	period := c.Query("period", services.PeriodWeek)
	stats, err := handler.statsService.BuildForPeriod(c.UserContext(), c.Params("id"), period, handler.currentLanguage(c), handler.now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to compute statistics")
	}

	minutesByWeekday := make(map[string]int64, len(stats.ByWeekday))
	for weekday, duration := range stats.ByWeekday {
		minutesByWeekday[weekday] = int64(duration / time.Minute)
	}
	return c.JSON(statsResponse{
		Period:           stats.Period,
		SessionCount:     stats.SessionCount,
		TotalMinutes:     int64(stats.TotalDuration / time.Minute),
		AverageMinutes:   int64(stats.AverageDuration / time.Minute),
		AverageQuality:   stats.AverageQuality,
		Longest:          stats.Longest,
		Shortest:         stats.Shortest,
		MinutesByWeekday: minutesByWeekday,
	})
}
