package routes

import (
	"github.com/gofiber/fiber/v2"

	"employee-feedback/src/controllers"
)

// Static paths are registered before /:id.
func feedbackRoutes(app *fiber.App, h *controllers.FeedbackController, adminGuard fiber.Handler) {
	feedback := app.Group("/feedback")

	feedback.Post("/", h.CreateFeedback)

	feedback.Get("/", adminGuard, h.ListFeedback)
	feedback.Get("/stats", adminGuard, h.GetFeedbackStats)
	feedback.Get("/export", adminGuard, h.ExportFeedback)
	feedback.Post("/bulk-update", adminGuard, h.BulkUpdateFeedback)
	feedback.Post("/bulk-delete", adminGuard, h.BulkDeleteFeedback)

	feedback.Get("/:id", adminGuard, h.GetFeedbackByID)
	feedback.Put("/:id", adminGuard, h.UpdateFeedback)
	feedback.Patch("/:id", adminGuard, h.UpdateFeedback)
	feedback.Delete("/:id", adminGuard, h.DeleteFeedback)
}
