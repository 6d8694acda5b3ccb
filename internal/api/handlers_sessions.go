package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lullaby/internal/services"
)

func (handler *Handler) ListSessions(c *fiber.Ctx) error {
	from, err := parseOptionalTimestamp(c.Query("from"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid from timestamp")
	}
	to, err := parseOptionalTimestamp(c.Query("to"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid to timestamp")
	}
	if from != nil && to != nil && to.Before(*from) {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}

	sessions, err := handler.store.LoadSessions(c.UserContext(), services.SessionFilter{
		ChildID: c.Query("child_id"),
		From:    from,
		To:      to,
	})
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load sessions")
	}
	return c.JSON(sessions)
}

func (handler *Handler) CreateSession(c *fiber.Ctx) error {
	payload := sessionPayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	session, err := handler.store.SaveSleepSession(c.UserContext(), payload.toModel())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to save session")
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (handler *Handler) DeleteSession(c *fiber.Ctx) error {
	if err := handler.store.DeleteSleepSession(c.UserContext(), c.Params("id")); err != nil {
		return handler.respondServiceError(c, err, "failed to delete session")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
