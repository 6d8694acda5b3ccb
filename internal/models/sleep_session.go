package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MoodCalm   = "calm"
	MoodFussy  = "fussy"
	MoodCrying = "crying"
	MoodHappy  = "happy"
	MoodSleepy = "sleepy"
)

const (
	MinSleepQuality  = 1
	MaxSleepQuality  = 10
	PoorQualityLimit = 3
)

type SleepSession struct {
	ID              string    `gorm:"primaryKey;type:text" json:"id"`
	ChildID         string    `gorm:"not null;index:idx_sleep_sessions_child_start" json:"child_id"`
	StartTime       time.Time `gorm:"not null;index:idx_sleep_sessions_child_start" json:"start_time"`
	EndTime         time.Time `gorm:"not null;index" json:"end_time"`
	DurationSeconds int64     `gorm:"not null;default:0" json:"duration_seconds"`
	Quality         *int      `json:"quality,omitempty"`
	Notes           string    `json:"notes"`
	Mood            string    `gorm:"not null;default:''" json:"mood"`
	CreatedAt       time.Time `json:"created_at"`
}

func (session SleepSession) Duration() time.Duration {
	return session.EndTime.Sub(session.StartTime)
}

func (session SleepSession) IsPoorQuality() bool {
	return session.Quality != nil && *session.Quality <= PoorQualityLimit
}

func (session *SleepSession) BeforeSave(*gorm.DB) error {
	session.DurationSeconds = int64(session.Duration() / time.Second)
	return nil
}

func IsKnownMood(mood string) bool {
	switch mood {
	case "", MoodCalm, MoodFussy, MoodCrying, MoodHappy, MoodSleepy:
		return true
	default:
		return false
	}
}
