package feedbacks

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"employee-feedback/src/models"
	"employee-feedback/src/services/dashboard"
	"employee-feedback/src/utils"
)

// Notifier is told about new submissions. Failures never fail the submission.
type Notifier interface {
	FeedbackSubmitted(ctx context.Context, feedback *models.Feedback) error
}

// Service implements the feedback operations on top of a Store.
type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// Dependencies bundles the collaborators of Service.
type Dependencies struct {
	Store    Store
	Notifier Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewService creates a feedback Service.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{store: deps.Store, notifier: deps.Notifier, logger: logger, now: now}
}

// Submit validates and stores a new submission with default triage fields.
func (s *Service) Submit(ctx context.Context, req models.CreateFeedbackRequest) (*models.Feedback, error) {
	req.Normalize()
	if err := utils.Validate(&req); err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		Name:       req.Name,
		Department: models.Department(req.Department),
		Message:    req.Message,
		Status:     models.StatusPending,
		IsRead:     false,
		Notes:      "",
		CreatedAt:  s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.store.Create(ctx, feedback); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.FeedbackSubmitted(ctx, feedback); err != nil {
			s.logger.Warn("failed to enqueue submission notification",
				zap.String("feedbackId", feedback.ID.Hex()), zap.Error(err))
		}
	}
	return feedback, nil
}

// ListQuery is the parsed query of a listing or export request.
type ListQuery struct {
	Department models.Department
	Criteria   dashboard.Criteria
}

// List returns feedback newest-first, optionally scoped to a department and
// narrowed by the dashboard criteria.
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.Feedback, error) {
	if q.Department != "" && !q.Department.IsValid() {
		return nil, utils.NewValidationError("Invalid department. Must be one of: "+models.DepartmentNames(), nil)
	}

	records, err := s.store.Find(ctx, models.FeedbackFilter{Department: q.Department})
	if err != nil {
		return nil, err
	}
	if q.Criteria.IsZero() {
		return records, nil
	}
	return dashboard.Derive(records, q.Criteria), nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, rawID string) (*models.Feedback, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Update changes status, read state or notes of one record.
func (s *Service) Update(ctx context.Context, rawID string, update models.FeedbackUpdate) (*models.Feedback, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(&update); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, update)
}

// Delete permanently removes one record.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// BulkUpdate applies update to the given ids. Missing ids are skipped; the
// returned count is the number of records actually modified.
func (s *Service) BulkUpdate(ctx context.Context, rawIDs []string, rawUpdate json.RawMessage) (int64, error) {
	ids, err := ParseIDs(rawIDs)
	if err != nil {
		return 0, err
	}

	trimmed := strings.TrimSpace(string(rawUpdate))
	if !strings.HasPrefix(trimmed, "{") {
		return 0, utils.NewValidationError("Please provide update data", nil)
	}
	var update models.FeedbackUpdate
	if err := json.Unmarshal(rawUpdate, &update); err != nil {
		return 0, utils.NewValidationError("Please provide update data", map[string]string{"updateData": err.Error()})
	}
	if err := utils.Validate(&update); err != nil {
		return 0, err
	}

	modified, err := s.store.UpdateMany(ctx, ids, update)
	if err != nil {
		return 0, err
	}
	s.logger.Info("bulk update applied", zap.Int("requested", len(ids)), zap.Int64("modified", modified))
	return modified, nil
}

// BulkDelete removes the given ids. Missing ids are skipped; the returned
// count is the number of records actually deleted.
func (s *Service) BulkDelete(ctx context.Context, rawIDs []string) (int64, error) {
	ids, err := ParseIDs(rawIDs)
	if err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("bulk delete applied", zap.Int("requested", len(ids)), zap.Int64("deleted", deleted))
	return deleted, nil
}

// ParseID converts a hex id, reporting malformed ids as validation errors.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, utils.NewValidationError("Invalid ID format", map[string]string{"id": raw})
	}
	return id, nil
}

// ParseIDs converts a non-empty id list, dropping duplicates.
func ParseIDs(raw []string) ([]primitive.ObjectID, error) {
	if len(raw) == 0 {
		return nil, utils.NewValidationError("Please provide an array of feedback IDs", nil)
	}
	seen := make(map[primitive.ObjectID]struct{}, len(raw))
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := ParseID(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
