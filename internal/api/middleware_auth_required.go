package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lullaby/internal/security"
	"go.uber.org/zap"
)

const bearerPrefix = "bearer "

// AuthRequired accepts a device token in the Authorization header.
// Clients that keep sending bad tokens are throttled.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	now := handler.now()
	limiterKey := requestLimiterKey(c)
	if handler.authLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
	}

	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		handler.authLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	claims, err := security.ParseDeviceToken(handler.secretKey, header[len(bearerPrefix):], now)
	if err != nil {
		handler.authLimiter.addFailure(limiterKey, now)
		handler.logger.Debug("device token rejected", zap.String("ip", limiterKey), zap.Error(err))
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	handler.authLimiter.reset(limiterKey)
	c.Locals(contextDeviceKey, claims.Device)
	return c.Next()
}
