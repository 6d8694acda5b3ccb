package models

import "time"

const (
	SettingActiveChildID       = "active_child_id"
	SettingReadRecommendations = "read_recommendations"
	SettingNightMode           = "night_mode"
	SettingNowPlaying          = "now_playing"
)

type AppSetting struct {
	Key       string `gorm:"primaryKey;type:text"`
	Value     string `gorm:"not null;default:''"`
	UpdatedAt time.Time
}
