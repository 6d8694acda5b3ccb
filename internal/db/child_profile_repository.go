package db

import (
	"context"

	"github.com/terraincognita07/lullaby/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChildProfileRepository struct {
	database *gorm.DB
}

func NewChildProfileRepository(database *gorm.DB) *ChildProfileRepository {
	return &ChildProfileRepository{database: database}
}

func (repo *ChildProfileRepository) List(ctx context.Context) ([]models.ChildProfile, error) {
	profiles := make([]models.ChildProfile, 0)
	if err := repo.database.WithContext(ctx).Order("created_at ASC, id ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (repo *ChildProfileRepository) FindByID(ctx context.Context, childID string) (models.ChildProfile, bool, error) {
	profile := models.ChildProfile{}
	result := repo.database.WithContext(ctx).Where("id = ?", childID).Limit(1).Find(&profile)
	if result.Error != nil {
		return models.ChildProfile{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.ChildProfile{}, false, nil
	}
	return profile, true, nil
}

func (repo *ChildProfileRepository) Save(ctx context.Context, profile *models.ChildProfile) error {
	return repo.database.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(profile).Error
}

// DeleteWithSessions removes the profile and every session that references it in one transaction.
func (repo *ChildProfileRepository) DeleteWithSessions(ctx context.Context, childID string) (bool, error) {
	deleted := false
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("child_id = ?", childID).Delete(&models.SleepSession{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", childID).Delete(&models.ChildProfile{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}
