package api

import (
	"time"

	"github.com/terraincognita07/lullaby/internal/audio"
	"github.com/terraincognita07/lullaby/internal/db"
	"github.com/terraincognita07/lullaby/internal/i18n"
	"github.com/terraincognita07/lullaby/internal/models"
	"github.com/terraincognita07/lullaby/internal/services"
	"go.uber.org/zap"
)

type Handler struct {
	secretKey []byte
	location  *time.Location
	i18n      *i18n.Manager
	logger    *zap.Logger
	now       func() time.Time

	authLimiter *attemptLimiter

	repositories    *db.Repositories
	store           *services.SessionStore
	tracking        *services.TrackingRegistry
	statsService    *services.StatsService
	recommendations *services.RecommendationEngine
	nightMode       *services.NightModeService
	exportService   *services.ExportService
	player          *audio.QueuePlayer
}

type activeChildResponse struct {
	Child *models.ChildProfile `json:"child"`
}

type trackingResponse struct {
	Tracking       services.SleepTracking `json:"tracking"`
	ElapsedSeconds int64                  `json:"elapsed_seconds"`
}

type statsResponse struct {
	Period           string               `json:"period"`
	SessionCount     int                  `json:"session_count"`
	TotalMinutes     int64                `json:"total_minutes"`
	AverageMinutes   int64                `json:"average_minutes"`
	AverageQuality   float64              `json:"average_quality"`
	Longest          *models.SleepSession `json:"longest"`
	Shortest         *models.SleepSession `json:"shortest"`
	MinutesByWeekday map[string]int64     `json:"minutes_by_weekday"`
}

type playerResponse struct {
	NowPlaying *audio.NowPlaying `json:"now_playing"`
	Sounds     []audio.Sound     `json:"sounds"`
}

const (
	contextDeviceKey = "device"

	exportDateLayout = "2006-01-02"
)
