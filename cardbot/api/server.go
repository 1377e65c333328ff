package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewServer builds the fiber application with all routes registered.
func NewServer(h *Handlers, adminToken string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "GDCards API",
		ServerHeader: "GDCards",
		ErrorHandler: CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(RequestID())
	app.Use(LoggingMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return SendSuccess(c, fiber.Map{"status": "ok"}, "")
	})

	v1 := app.Group("/v1")
	v1.Post("/draw", h.Draw)
	v1.Post("/promo/redeem", h.Redeem)
	v1.Post("/nickname", h.SetNickname)
	v1.Get("/players/:external_id/profile", h.Profile)
	v1.Get("/players/:external_id/collection", h.Collection)
	v1.Get("/leaderboard", h.Leaderboard)

	admin := v1.Group("/admin", AdminRequired(adminToken))
	admin.Post("/cards", h.AddCard)
	admin.Get("/cards", h.ListCards)
	admin.Get("/cards/search", h.SearchCards)
	admin.Delete("/cards/:id", h.DeleteCard)
	admin.Get("/stats/rarities", h.RarityStats)
	admin.Post("/promo/codes", h.GenerateCode)
	admin.Post("/players/:external_id/reset-cooldown", h.ResetCooldown)

	return app
}
