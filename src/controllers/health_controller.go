package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController responds to the banner, liveness and readiness probes.
type HealthController struct {
	name    string
	version string
	mongo   Pinger
	redis   Pinger
}

// NewHealthController creates the handler. redis is nil when Redis is disabled.
func NewHealthController(name, version string, mongo, redis Pinger) *HealthController {
	return &HealthController{name: name, version: version, mongo: mongo, redis: redis}
}

// Root godoc
// @Summary      Service banner
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *HealthController) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Employee Feedback Backend API",
		"service": h.name,
		"version": h.version,
		"status":  "running",
		"endpoints": fiber.Map{
			"health":   "/health",
			"feedback": "/feedback",
			"auth":     "/auth",
			"docs":     "/swagger/index.html",
		},
	})
}

// Live godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthController) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Pings MongoDB and, when configured, Redis
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health/ready [get]
func (h *HealthController) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	deps := fiber.Map{}
	ready := true
	check := func(name string, p Pinger) {
		if p == nil {
			deps[name] = "disabled"
			return
		}
		if err := p.Ping(ctx); err != nil {
			deps[name] = err.Error()
			ready = false
			return
		}
		deps[name] = "ok"
	}
	check("mongodb", h.mongo)
	check("redis", h.redis)

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":       "unavailable",
			"dependencies": deps,
		})
	}
	return c.JSON(fiber.Map{"status": "ready", "dependencies": deps})
}
