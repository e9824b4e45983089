package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	"employee-feedback/src/config"
	"employee-feedback/src/controllers"
	"employee-feedback/src/middleware"
	"employee-feedback/src/routes"
	"employee-feedback/src/services/auth"
	"employee-feedback/src/services/feedbacks"
	"employee-feedback/src/services/stats"
)

// Dependencies are the services and probes the HTTP app is built from.
// Redis is nil when Redis is disabled.
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Feedback *feedbacks.Service
	Stats    *stats.Service
	Auth     *auth.Service
	Mongo    controllers.Pinger
	Redis    controllers.Pinger
	Location *time.Location
	Now      func() time.Time
}

// New builds the Fiber app with middleware and every route mounted.
func New(d Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      d.Config.App.Name,
		ErrorHandler: middleware.ErrorHandler(d.Logger),
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			d.Logger.Error("panic recovered", zap.Any("panic", e), zap.String("path", c.Path()))
		},
	}))
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(d.Logger))
	app.Use(cors.New(corsConfig(d.Config.CORS)))
	app.Use(middleware.RequestTimeout(d.Config.App.RequestTimeout()))

	app.Get("/swagger/*", swagger.HandlerDefault)

	routes.InitRoutes(app, routes.Handlers{
		Feedback: controllers.NewFeedbackController(d.Feedback, d.Stats, d.Location, d.Now),
		Auth:     controllers.NewAuthController(d.Auth),
		Health:   controllers.NewHealthController(d.Config.App.Name, d.Config.App.Version, d.Mongo, d.Redis),
	}, routes.Options{
		RequireAdmin:  d.Config.Auth.RequireAdmin,
		Authenticator: d.Auth,
	})

	return app
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	origins := strings.Join(cfg.AllowOrigins, ",")
	return cors.Config{
		AllowOrigins: origins,
		AllowOriginsFunc: func(origin string) bool {
			return cfg.AllowOriginSuffix != "" &&
				strings.HasPrefix(origin, "https://") &&
				strings.HasSuffix(origin, cfg.AllowOriginSuffix)
		},
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		// fiber rejects credentials with the "*" fallback used for an empty list.
		AllowCredentials: origins != "",
	}
}
