package db

import (
	"context"
	"time"

	"github.com/terraincognita07/lullaby/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SleepSessionRepository struct {
	database *gorm.DB
}

func NewSleepSessionRepository(database *gorm.DB) *SleepSessionRepository {
	return &SleepSessionRepository{database: database}
}

// List returns sessions newest-first. Empty childID matches every child; nil bounds are open.
// Both bounds apply to end_time and are inclusive; stored times are UTC so bounds are converted.
func (repo *SleepSessionRepository) List(ctx context.Context, childID string, endFrom *time.Time, endTo *time.Time) ([]models.SleepSession, error) {
	query := repo.database.WithContext(ctx).Model(&models.SleepSession{})
	if childID != "" {
		query = query.Where("child_id = ?", childID)
	}
	if endFrom != nil {
		query = query.Where("end_time >= ?", endFrom.UTC())
	}
	if endTo != nil {
		query = query.Where("end_time <= ?", endTo.UTC())
	}

	sessions := make([]models.SleepSession, 0)
	if err := query.Order("start_time DESC, id ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (repo *SleepSessionRepository) FindByID(ctx context.Context, sessionID string) (models.SleepSession, bool, error) {
	session := models.SleepSession{}
	result := repo.database.WithContext(ctx).Where("id = ?", sessionID).Limit(1).Find(&session)
	if result.Error != nil {
		return models.SleepSession{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.SleepSession{}, false, nil
	}
	return session, true, nil
}

func (repo *SleepSessionRepository) Save(ctx context.Context, session *models.SleepSession) error {
	return repo.database.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(session).Error
}

func (repo *SleepSessionRepository) DeleteByID(ctx context.Context, sessionID string) error {
	return repo.database.WithContext(ctx).Where("id = ?", sessionID).Delete(&models.SleepSession{}).Error
}
