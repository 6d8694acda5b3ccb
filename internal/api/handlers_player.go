package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lullaby/internal/audio"
)

func (handler *Handler) GetPlayer(c *fiber.Ctx) error {
	current, err := handler.player.Current(c.UserContext())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load player")
	}
	return c.JSON(playerResponse{NowPlaying: current, Sounds: audio.Catalog()})
}

func (handler *Handler) PlaySound(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := handler.player.Play(ctx, c.Params("sound")); err != nil {
		return handler.respondServiceError(c, err, "failed to play sound")
	}
	current, err := handler.player.Current(ctx)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load player")
	}
	return c.JSON(playerResponse{NowPlaying: current, Sounds: audio.Catalog()})
}

func (handler *Handler) StopSound(c *fiber.Ctx) error {
	if err := handler.player.Stop(c.UserContext()); err != nil {
		return handler.respondServiceError(c, err, "failed to stop player")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
