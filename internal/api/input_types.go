package api

import (
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
	"github.com/terraincognita07/lullaby/internal/services"
)

type routinePayload struct {
	Name      string `json:"name" validate:"required,max=64"`
	TimeOfDay string `json:"time_of_day" validate:"required,len=5"`
}

type childPayload struct {
	Name           string           `json:"name" validate:"required,max=64"`
	BirthDate      string           `json:"birth_date" validate:"required"`
	Avatar         string           `json:"avatar" validate:"max=32"`
	SleepGoalHours float64          `json:"sleep_goal_hours" validate:"gte=0,lte=24"`
	Notes          string           `json:"notes" validate:"max=2000"`
	FavoriteSounds []string         `json:"favorite_sounds" validate:"max=16,dive,required"`
	Routine        []routinePayload `json:"routine" validate:"max=24,dive"`
}

type childPatchPayload struct {
	Name           *string           `json:"name" validate:"omitempty,min=1,max=64"`
	BirthDate      *string           `json:"birth_date"`
	Avatar         *string           `json:"avatar" validate:"omitempty,max=32"`
	SleepGoalHours *float64          `json:"sleep_goal_hours" validate:"omitempty,gt=0,lte=24"`
	Notes          *string           `json:"notes" validate:"omitempty,max=2000"`
	FavoriteSounds *[]string         `json:"favorite_sounds" validate:"omitempty,max=16"`
	Routine        *[]routinePayload `json:"routine" validate:"omitempty,max=24"`
}

type sessionPayload struct {
	ID        string    `json:"id" validate:"omitempty,uuid"`
	ChildID   string    `json:"child_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Quality   *int      `json:"quality" validate:"omitempty,min=1,max=10"`
	Notes     string    `json:"notes" validate:"max=2000"`
	Mood      string    `json:"mood" validate:"omitempty,oneof=calm fussy crying happy sleepy"`
}

type trackingStartPayload struct {
	StartTime *time.Time `json:"start_time"`
}

type trackingPatchPayload struct {
	Quality *int    `json:"quality" validate:"omitempty,min=1,max=10"`
	Notes   *string `json:"notes" validate:"omitempty,max=2000"`
	Mood    *string `json:"mood" validate:"omitempty,oneof=calm fussy crying happy sleepy"`
}

type trackingStopPayload struct {
	EndTime *time.Time `json:"end_time"`
}

type nightModePayload struct {
	Enabled      bool    `json:"enabled"`
	AutoSchedule bool    `json:"auto_schedule"`
	Start        string  `json:"start" validate:"required,len=5"`
	End          string  `json:"end" validate:"required,len=5"`
	Brightness   float64 `json:"brightness" validate:"gte=0,lte=1"`
}

func (payload routinePayload) toModel() models.RoutineActivity {
	return models.RoutineActivity{Name: payload.Name, TimeOfDay: payload.TimeOfDay}
}

func routineModels(payloads []routinePayload) []models.RoutineActivity {
	routine := make([]models.RoutineActivity, 0, len(payloads))
	for _, payload := range payloads {
		routine = append(routine, payload.toModel())
	}
	return routine
}

func (payload sessionPayload) toModel() models.SleepSession {
	return models.SleepSession{
		ID:        payload.ID,
		ChildID:   payload.ChildID,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		Quality:   payload.Quality,
		Notes:     payload.Notes,
		Mood:      payload.Mood,
	}
}

func (payload trackingPatchPayload) toUpdate() services.TrackingUpdate {
	return services.TrackingUpdate{Quality: payload.Quality, Notes: payload.Notes, Mood: payload.Mood}
}

func (payload nightModePayload) toSettings() services.NightModeSettings {
	return services.NightModeSettings{
		Enabled:      payload.Enabled,
		AutoSchedule: payload.AutoSchedule,
		Start:        payload.Start,
		End:          payload.End,
		Brightness:   payload.Brightness,
	}
}
