package routes

import (
	"github.com/gofiber/fiber/v2"

	"employee-feedback/src/controllers"
)

func authRoutes(app *fiber.App, h *controllers.AuthController, requireToken fiber.Handler) {
	auth := app.Group("/auth")

	auth.Post("/login", h.Login)
	auth.Post("/logout", requireToken, h.Logout)
	auth.Get("/verify", requireToken, h.Verify)
}
