package routes

import (
	"github.com/gofiber/fiber/v2"

	"employee-feedback/src/controllers"
	"employee-feedback/src/middleware"
)

// Handlers groups the controllers mounted by InitRoutes.
type Handlers struct {
	Feedback *controllers.FeedbackController
	Auth     *controllers.AuthController
	Health   *controllers.HealthController
}

// Options controls route protection.
type Options struct {
	// RequireAdmin guards every admin feedback route with a bearer token.
	RequireAdmin  bool
	Authenticator middleware.Authenticator
}

func InitRoutes(app *fiber.App, h Handlers, opts Options) {
	requireToken := middleware.AuthJWT(opts.Authenticator)

	adminGuard := func(c *fiber.Ctx) error { return c.Next() }
	if opts.RequireAdmin {
		adminGuard = requireToken
	}

	healthRoutes(app, h.Health)
	authRoutes(app, h.Auth, requireToken)
	feedbackRoutes(app, h.Feedback, adminGuard)
}

func healthRoutes(app *fiber.App, h *controllers.HealthController) {
	app.Get("/", h.Root)
	app.Get("/health", h.Live)
	app.Get("/health/ready", h.Ready)
}
