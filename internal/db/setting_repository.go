package db

import (
	"context"

	"github.com/terraincognita07/lullaby/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	database *gorm.DB
}

func NewSettingRepository(database *gorm.DB) *SettingRepository {
	return &SettingRepository{database: database}
}

func (repo *SettingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	setting := models.AppSetting{}
	result := repo.database.WithContext(ctx).Where("app_settings.key = ?", key).Limit(1).Find(&setting)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return setting.Value, true, nil
}

func (repo *SettingRepository) Set(ctx context.Context, key string, value string) error {
	setting := models.AppSetting{Key: key, Value: value}
	return repo.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
}

func (repo *SettingRepository) Delete(ctx context.Context, key string) error {
	return repo.database.WithContext(ctx).Where("app_settings.key = ?", key).Delete(&models.AppSetting{}).Error
}
