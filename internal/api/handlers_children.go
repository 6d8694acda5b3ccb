package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lullaby/internal/models"
	"github.com/terraincognita07/lullaby/internal/services"
)

func (handler *Handler) ListChildren(c *fiber.Ctx) error {
	children, err := handler.store.ListChildren(c.UserContext())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load children")
	}
	return c.JSON(children)
}

func (handler *Handler) GetChild(c *fiber.Ctx) error {
	child, err := handler.store.FindChild(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load child")
	}
	return c.JSON(child)
}

func (handler *Handler) CreateChild(c *fiber.Ctx) error {
	payload := childPayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	birthDate, err := parseBirthDate(payload.BirthDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	child, err := handler.store.SaveChild(c.UserContext(), models.ChildProfile{
		Name:           payload.Name,
		BirthDate:      birthDate,
		Avatar:         payload.Avatar,
		SleepGoalHours: payload.SleepGoalHours,
		Notes:          payload.Notes,
		FavoriteSounds: payload.FavoriteSounds,
		Routine:        routineModels(payload.Routine),
	})
	if err != nil {
		return handler.respondServiceError(c, err, "failed to save child")
	}
	return c.Status(fiber.StatusCreated).JSON(child)
}

func (handler *Handler) UpdateChild(c *fiber.Ctx) error {
	payload := childPatchPayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	update := services.ChildProfileUpdate{
		Name:           payload.Name,
		Avatar:         payload.Avatar,
		SleepGoalHours: payload.SleepGoalHours,
		Notes:          payload.Notes,
		FavoriteSounds: payload.FavoriteSounds,
	}
	if payload.BirthDate != nil {
		birthDate, err := parseBirthDate(*payload.BirthDate, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		update.BirthDate = &birthDate
	}
	if payload.Routine != nil {
		routine := routineModels(*payload.Routine)
		update.Routine = &routine
	}

	child, err := handler.store.UpdateChild(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to update child")
	}
	return c.JSON(child)
}

func (handler *Handler) DeleteChild(c *fiber.Ctx) error {
	childID := c.Params("id")
	if err := handler.store.DeleteChild(c.UserContext(), childID); err != nil {
		return handler.respondServiceError(c, err, "failed to delete child")
	}
	handler.tracking.Discard(childID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) GetActiveChild(c *fiber.Ctx) error {
	child, err := handler.store.GetActiveChild(c.UserContext())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load active child")
	}
	return c.JSON(activeChildResponse{Child: child})
}

func (handler *Handler) SetActiveChild(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := handler.store.SetActiveChild(ctx, c.Params("id")); err != nil {
		return handler.respondServiceError(c, err, "failed to set active child")
	}
	child, err := handler.store.GetActiveChild(ctx)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load active child")
	}
	return c.JSON(activeChildResponse{Child: child})
}

func (handler *Handler) ClearActiveChild(c *fiber.Ctx) error {
	if err := handler.store.ClearActiveChild(c.UserContext()); err != nil {
		return handler.respondServiceError(c, err, "failed to clear active child")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
