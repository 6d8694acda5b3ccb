package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
	app.Use(handler.NotFound)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.AuthRequired, handler.LanguageMiddleware)

	children := api.Group("/children")
	children.Get("", handler.ListChildren)
	children.Post("", handler.CreateChild)
	children.Get("/:id", handler.GetChild)
	children.Patch("/:id", handler.UpdateChild)
	children.Delete("/:id", handler.DeleteChild)

	children.Post("/:id/tracking", handler.StartTracking)
	children.Get("/:id/tracking", handler.GetTracking)
	children.Patch("/:id/tracking", handler.UpdateTracking)
	children.Post("/:id/tracking/stop", handler.StopTracking)
	children.Delete("/:id/tracking", handler.DiscardTracking)

	children.Get("/:id/stats", handler.GetStats)
	children.Get("/:id/recommendations", handler.GetRecommendations)
	children.Post("/:id/recommendations/:rid/action", handler.PerformRecommendationAction)

	activeChild := api.Group("/active-child")
	activeChild.Get("", handler.GetActiveChild)
	activeChild.Put("/:id", handler.SetActiveChild)
	activeChild.Delete("", handler.ClearActiveChild)

	sessions := api.Group("/sessions")
	sessions.Get("", handler.ListSessions)
	sessions.Post("", handler.CreateSession)
	sessions.Delete("/:id", handler.DeleteSession)

	recommendations := api.Group("/recommendations")
	recommendations.Post("/:rid/read", handler.MarkRecommendationRead)
	recommendations.Delete("/read", handler.ClearReadRecommendations)

	nightMode := api.Group("/night-mode")
	nightMode.Get("", handler.GetNightMode)
	nightMode.Put("", handler.UpdateNightMode)
	nightMode.Get("/status", handler.GetNightModeStatus)

	player := api.Group("/player")
	player.Get("", handler.GetPlayer)
	player.Post("/:sound", handler.PlaySound)
	player.Delete("", handler.StopSound)

	export := api.Group("/export")
	export.Get("/json", handler.ExportJSON)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/summary", handler.ExportSummary)
}
