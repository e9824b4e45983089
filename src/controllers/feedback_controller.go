package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"employee-feedback/src/models"
	"employee-feedback/src/services/dashboard"
	"employee-feedback/src/services/feedbacks"
	"employee-feedback/src/services/stats"
	"employee-feedback/src/utils"
)

// FeedbackController serves the /feedback endpoints.
type FeedbackController struct {
	feedback *feedbacks.Service
	stats    *stats.Service
	location *time.Location
	now      func() time.Time
}

// NewFeedbackController wires the handlers. loc is used for date-range
// filters and export timestamps.
func NewFeedbackController(feedback *feedbacks.Service, stats *stats.Service, loc *time.Location, now func() time.Time) *FeedbackController {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &FeedbackController{feedback: feedback, stats: stats, location: loc, now: now}
}

// CreateFeedback godoc
// @Summary      Submit feedback
// @Description  Store a new feedback entry with status pending
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body body models.CreateFeedbackRequest true "Feedback"
// @Success      201  {object}  models.Feedback
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /feedback [post]
func (h *FeedbackController) CreateFeedback(c *fiber.Ctx) error {
	var req models.CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	feedback, err := h.feedback.Submit(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(feedback)
}

// ListFeedback godoc
// @Summary      List feedback
// @Description  Newest first unless another sort is given
// @Tags         feedback
// @Produce      json
// @Param        department query  string  false  "Department filter"
// @Param        search     query  string  false  "Case-insensitive match on name or message"
// @Param        start      query  string  false  "First day (YYYY-MM-DD)"
// @Param        end        query  string  false  "Last day (YYYY-MM-DD)"
// @Param        sort       query  string  false  "date-desc, date-asc, name-asc, name-desc or status" default(date-desc)
// @Success      200  {array}   models.Feedback
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /feedback [get]
func (h *FeedbackController) ListFeedback(c *fiber.Ctx) error {
	q, err := h.listQuery(c)
	if err != nil {
		return err
	}
	records, err := h.feedback.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// GetFeedbackStats godoc
// @Summary      Feedback statistics
// @Description  Totals, per-department and per-status counts, last 7 days activity and 30 day average
// @Tags         feedback
// @Produce      json
// @Success      200  {object}  models.StatsSummary
// @Failure      500  {object}  models.ErrorResponse
// @Router       /feedback/stats [get]
func (h *FeedbackController) GetFeedbackStats(c *fiber.Ctx) error {
	summary, err := h.stats.Compute(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// ExportFeedback godoc
// @Summary      Export feedback as CSV
// @Description  Accepts the same filters as the listing
// @Tags         feedback
// @Produce      text/csv
// @Param        department query  string  false  "Department filter"
// @Param        search     query  string  false  "Case-insensitive match on name or message"
// @Param        start      query  string  false  "First day (YYYY-MM-DD)"
// @Param        end        query  string  false  "Last day (YYYY-MM-DD)"
// @Param        sort       query  string  false  "Sort key" default(date-desc)
// @Success      200  {file}    file
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /feedback/export [get]
func (h *FeedbackController) ExportFeedback(c *fiber.Ctx) error {
	q, err := h.listQuery(c)
	if err != nil {
		return err
	}
	body, err := h.feedback.Export(c.UserContext(), q, h.location)
	if err != nil {
		return err
	}
	c.Attachment(feedbacks.ExportFilename(h.now()))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(body)
}

// GetFeedbackByID godoc
// @Summary      Get feedback by ID
// @Tags         feedback
// @Produce      json
// @Param        id   path      string  true  "Feedback ID"
// @Success      200  {object}  models.Feedback
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /feedback/{id} [get]
func (h *FeedbackController) GetFeedbackByID(c *fiber.Ctx) error {
	feedback, err := h.feedback.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(feedback)
}

// UpdateFeedback godoc
// @Summary      Update feedback
// @Description  Change status, read state or notes
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        id   path      string                 true  "Feedback ID"
// @Param        body body      models.FeedbackUpdate  true  "Fields to change"
// @Success      200  {object}  models.Feedback
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /feedback/{id} [put]
func (h *FeedbackController) UpdateFeedback(c *fiber.Ctx) error {
	var update models.FeedbackUpdate
	if err := c.BodyParser(&update); err != nil {
		return invalidBody(err)
	}
	feedback, err := h.feedback.Update(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(feedback)
}

// DeleteFeedback godoc
// @Summary      Delete feedback
// @Tags         feedback
// @Produce      json
// @Param        id   path      string  true  "Feedback ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /feedback/{id} [delete]
func (h *FeedbackController) DeleteFeedback(c *fiber.Ctx) error {
	if err := h.feedback.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(models.MessageResponse{Message: "Feedback deleted successfully"})
}

// BulkUpdateFeedback godoc
// @Summary      Update many feedback entries
// @Description  Missing ids are skipped; modifiedCount reports what changed
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body body      models.BulkUpdateRequest  true  "IDs and fields to change"
// @Success      200  {object}  models.BulkUpdateResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /feedback/bulk-update [post]
func (h *FeedbackController) BulkUpdateFeedback(c *fiber.Ctx) error {
	var req models.BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	modified, err := h.feedback.BulkUpdate(c.UserContext(), req.IDs, req.UpdateData)
	if err != nil {
		return err
	}
	return c.JSON(models.BulkUpdateResponse{
		Message:       fmt.Sprintf("%d feedback entries updated successfully", modified),
		ModifiedCount: modified,
	})
}

// BulkDeleteFeedback godoc
// @Summary      Delete many feedback entries
// @Description  Missing ids are skipped; deletedCount reports what was removed
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body body      models.BulkDeleteRequest  true  "IDs"
// @Success      200  {object}  models.BulkDeleteResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /feedback/bulk-delete [post]
func (h *FeedbackController) BulkDeleteFeedback(c *fiber.Ctx) error {
	var req models.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	deleted, err := h.feedback.BulkDelete(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(models.BulkDeleteResponse{
		Message:      fmt.Sprintf("%d feedback entries deleted successfully", deleted),
		DeletedCount: deleted,
	})
}

func (h *FeedbackController) listQuery(c *fiber.Ctx) (feedbacks.ListQuery, error) {
	sortKey, err := dashboard.ParseSortKey(c.Query("sort"))
	if err != nil {
		return feedbacks.ListQuery{}, utils.NewValidationError(err.Error(), map[string]string{"sort": c.Query("sort")})
	}

	criteria := dashboard.Criteria{
		Search:   c.Query("search"),
		Sort:     sortKey,
		Location: h.location,
	}
	bounds := []struct {
		param string
		dst   **dashboard.Date
	}{
		{"start", &criteria.Range.Start},
		{"end", &criteria.Range.End},
	}
	for _, b := range bounds {
		raw := strings.TrimSpace(c.Query(b.param))
		if raw == "" {
			continue
		}
		d, err := dashboard.ParseDate(raw)
		if err != nil {
			return feedbacks.ListQuery{}, utils.NewValidationError(err.Error(), map[string]string{b.param: raw})
		}
		*b.dst = &d
	}

	return feedbacks.ListQuery{
		Department: models.Department(strings.TrimSpace(c.Query("department"))),
		Criteria:   criteria,
	}, nil
}

func invalidBody(err error) error {
	return utils.NewValidationError("Invalid request body", map[string]string{"body": err.Error()})
}
