package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetRecommendations(c *fiber.Ctx) error {
	recommendations, err := handler.recommendations.Generate(c.UserContext(), c.Params("id"), handler.currentLanguage(c), handler.now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to build recommendations")
	}
	return c.JSON(recommendations)
}

func (handler *Handler) PerformRecommendationAction(c *fiber.Ctx) error {
	recommendation, err := handler.recommendations.PerformAction(c.UserContext(), c.Params("id"), c.Params("rid"), handler.currentLanguage(c), handler.now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to perform action")
	}
	return c.JSON(recommendation)
}

func (handler *Handler) MarkRecommendationRead(c *fiber.Ctx) error {
	if err := handler.recommendations.MarkRead(c.UserContext(), c.Params("rid")); err != nil {
		return handler.respondServiceError(c, err, "failed to mark recommendation read")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ClearReadRecommendations(c *fiber.Ctx) error {
	if err := handler.recommendations.ClearRead(c.UserContext()); err != nil {
		return handler.respondServiceError(c, err, "failed to clear read recommendations")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
