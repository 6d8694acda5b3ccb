package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetNightMode(c *fiber.Ctx) error {
	settings, err := handler.nightMode.Load(c.UserContext())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load night mode")
	}
	return c.JSON(settings)
}

func (handler *Handler) UpdateNightMode(c *fiber.Ctx) error {
	payload := nightModePayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	settings, err := handler.nightMode.Save(c.UserContext(), payload.toSettings())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to save night mode")
	}
	return c.JSON(settings)
}

func (handler *Handler) GetNightModeStatus(c *fiber.Ctx) error {
	status, err := handler.nightMode.ShouldDim(c.UserContext(), handler.now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to evaluate night mode")
	}
	return c.JSON(status)
}
