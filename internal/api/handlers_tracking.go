package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lullaby/internal/models"
	"github.com/terraincognita07/lullaby/internal/services"
)

func (handler *Handler) StartTracking(c *fiber.Ctx) error {
	childID := c.Params("id")
	if _, err := handler.store.FindChild(c.UserContext(), childID); err != nil {
		return handler.respondServiceError(c, err, "failed to load child")
	}

	payload := trackingStartPayload{}
	if len(c.Body()) > 0 {
		if err := parseJSONBody(c, &payload); err != nil {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
	}
	start := handler.now()
	if payload.StartTime != nil {
		start = *payload.StartTime
	}

	tracking, err := handler.tracking.Start(childID, start)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to start tracking")
	}
	return c.Status(fiber.StatusCreated).JSON(handler.trackingResponse(tracking))
}

func (handler *Handler) GetTracking(c *fiber.Ctx) error {
	tracking, err := handler.tracking.Get(c.Params("id"))
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load tracking")
	}
	return c.JSON(handler.trackingResponse(tracking))
}

func (handler *Handler) UpdateTracking(c *fiber.Ctx) error {
	payload := trackingPatchPayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	tracking, err := handler.tracking.Update(c.Params("id"), payload.toUpdate())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to update tracking")
	}
	return c.JSON(handler.trackingResponse(tracking))
}

func (handler *Handler) StopTracking(c *fiber.Ctx) error {
	payload := trackingStopPayload{}
	if len(c.Body()) > 0 {
		if err := parseJSONBody(c, &payload); err != nil {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
	}
	end := handler.now()
	if payload.EndTime != nil {
		end = *payload.EndTime
	}

	ctx := c.UserContext()
	session, err := handler.tracking.Stop(c.Params("id"), end, func(session models.SleepSession) (models.SleepSession, error) {
		return handler.store.SaveSleepSession(ctx, session)
	})
	if err != nil {
		return handler.respondServiceError(c, err, "failed to stop tracking")
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (handler *Handler) DiscardTracking(c *fiber.Ctx) error {
	handler.tracking.Discard(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) trackingResponse(tracking services.SleepTracking) trackingResponse {
	return trackingResponse{
		Tracking:       tracking,
		ElapsedSeconds: int64(tracking.Elapsed(handler.now()) / time.Second),
	}
}
