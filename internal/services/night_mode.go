package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
	"go.uber.org/zap"
)

const nightModeClockLayout = "15:04"

var (
	ErrInvalidNightModeClock      = errors.New("night mode time must be HH:MM")
	ErrInvalidNightModeBrightness = errors.New("night mode brightness must be between 0 and 1")
)

type NightModeSettings struct {
	Enabled      bool    `json:"enabled"`
	AutoSchedule bool    `json:"auto_schedule"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Brightness   float64 `json:"brightness"`
}

type NightModeStatus struct {
	Settings NightModeSettings `json:"settings"`
	Dimmed   bool              `json:"dimmed"`
}

func DefaultNightModeSettings() NightModeSettings {
	return NightModeSettings{
		Enabled:      false,
		AutoSchedule: true,
		Start:        "20:00",
		End:          "07:00",
		Brightness:   0.3,
	}
}

// IsNightTime reports whether now falls inside [start, end). Windows may cross midnight.
func IsNightTime(now time.Time, start string, end string) (bool, error) {
	startMinute, err := parseClockMinute(start)
	if err != nil {
		return false, err
	}
	endMinute, err := parseClockMinute(end)
	if err != nil {
		return false, err
	}
	current := now.Hour()*60 + now.Minute()

	switch {
	case startMinute == endMinute:
		return false, nil
	case startMinute < endMinute:
		return current >= startMinute && current < endMinute, nil
	default:
		return current >= startMinute || current < endMinute, nil
	}
}

func ValidateNightModeSettings(settings NightModeSettings) error {
	if _, err := parseClockMinute(settings.Start); err != nil {
		return err
	}
	if _, err := parseClockMinute(settings.End); err != nil {
		return err
	}
	if settings.Brightness < 0 || settings.Brightness > 1 {
		return ErrInvalidNightModeBrightness
	}
	return nil
}

func parseClockMinute(raw string) (int, error) {
	parsed, err := time.Parse(nightModeClockLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidNightModeClock
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

type NightModeService struct {
	settings SettingStore
	location *time.Location
	logger   *zap.Logger
}

func NewNightModeService(settings SettingStore, location *time.Location, logger *zap.Logger) *NightModeService {
	if location == nil {
		location = time.UTC
	}
	return &NightModeService{settings: settings, location: location, logger: loggerOrNop(logger)}
}

func (service *NightModeService) Load(ctx context.Context) (NightModeSettings, error) {
	settings := DefaultNightModeSettings()
	found, err := readJSONSetting(ctx, service.settings, service.logger, models.SettingNightMode, &settings)
	if err != nil {
		return NightModeSettings{}, err
	}
	if !found {
		return DefaultNightModeSettings(), nil
	}
	if err := ValidateNightModeSettings(settings); err != nil {
		service.logger.Warn("discarding invalid night mode settings", zap.Error(err))
		return DefaultNightModeSettings(), nil
	}
	return settings, nil
}

func (service *NightModeService) Save(ctx context.Context, settings NightModeSettings) (NightModeSettings, error) {
	settings.Start = strings.TrimSpace(settings.Start)
	settings.End = strings.TrimSpace(settings.End)
	if err := ValidateNightModeSettings(settings); err != nil {
		return NightModeSettings{}, err
	}
	if err := writeJSONSetting(ctx, service.settings, models.SettingNightMode, settings); err != nil {
		return NightModeSettings{}, fmt.Errorf("save night mode: %w", err)
	}
	return settings, nil
}

// ShouldDim is true when night mode is switched on manually, or the schedule says it is night.
func (service *NightModeService) ShouldDim(ctx context.Context, now time.Time) (NightModeStatus, error) {
	settings, err := service.Load(ctx)
	if err != nil {
		return NightModeStatus{}, err
	}
	status := NightModeStatus{Settings: settings, Dimmed: settings.Enabled}
	if settings.AutoSchedule && !status.Dimmed {
		night, err := IsNightTime(now.In(service.location), settings.Start, settings.End)
		if err != nil {
			return NightModeStatus{}, err
		}
		status.Dimmed = night
	}
	return status, nil
}
