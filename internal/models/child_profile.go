package models

import "time"

const DefaultSleepGoalHours = 14.0

type RoutineActivity struct {
	Name      string `json:"name"`
	TimeOfDay string `json:"time_of_day"`
}

type ChildProfile struct {
	ID             string            `gorm:"primaryKey;type:text" json:"id"`
	Name           string            `gorm:"not null" json:"name"`
	BirthDate      time.Time         `gorm:"not null" json:"birth_date"`
	Avatar         string            `gorm:"not null;default:''" json:"avatar"`
	SleepGoalHours float64           `gorm:"not null;default:14" json:"sleep_goal_hours"`
	Notes          string            `json:"notes"`
	FavoriteSounds []string          `gorm:"serializer:json" json:"favorite_sounds"`
	Routine        []RoutineActivity `gorm:"serializer:json" json:"routine"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// AgeInMonths counts whole calendar months between the birth date and now.
func (profile ChildProfile) AgeInMonths(now time.Time) int {
	birth := profile.BirthDate.In(now.Location())
	months := (now.Year()-birth.Year())*12 + int(now.Month()) - int(birth.Month())
	if now.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
