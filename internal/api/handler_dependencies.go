package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/lullaby/internal/audio"
	"github.com/terraincognita07/lullaby/internal/db"
	"github.com/terraincognita07/lullaby/internal/i18n"
	"github.com/terraincognita07/lullaby/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, secretKey []byte, location *time.Location, i18nManager *i18n.Manager, logger *zap.Logger) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(secretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := &Handler{
		secretKey: secretKey,
		location:  location,
		i18n:      i18nManager,
		logger:    logger,
		now:       time.Now,

		authLimiter: newAttemptLimiter(authFailureLimit, authFailureWindow),
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	settings := handler.repositories.Settings

	handler.store = services.NewSessionStore(handler.repositories.Children, handler.repositories.Sessions, settings, handler.logger.Named("store"))
	handler.tracking = services.NewTrackingRegistry()
	handler.player = audio.NewQueuePlayer(settings, handler.logger.Named("player"))
	handler.statsService = services.NewStatsService(handler.store, handler.i18n, handler.location)
	handler.recommendations = services.NewRecommendationEngine(handler.store, settings, handler.player, handler.i18n, handler.location, handler.logger.Named("recommendations"))
	handler.nightMode = services.NewNightModeService(settings, handler.location, handler.logger.Named("night_mode"))
	handler.exportService = services.NewExportService(handler.store, handler.location)
	return handler
}
