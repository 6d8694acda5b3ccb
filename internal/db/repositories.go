package db

import "gorm.io/gorm"

type Repositories struct {
	Children *ChildProfileRepository
	Sessions *SleepSessionRepository
	Settings *SettingRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Children: NewChildProfileRepository(database),
		Sessions: NewSleepSessionRepository(database),
		Settings: NewSettingRepository(database),
	}
}
