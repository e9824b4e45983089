package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"employee-feedback/src/models"
	"employee-feedback/src/utils"
)

// FeedbackLookup loads one feedback record.
type FeedbackLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error)
}

// HandleFeedbackSubmitted reports a new submission to the admin log stream.
// Records deleted before the task runs are skipped.
func HandleFeedbackSubmitted(lookup FeedbackLookup, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p FeedbackSubmittedPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TypeFeedbackSubmitted, err, asynq.SkipRetry)
		}
		id, err := primitive.ObjectIDFromHex(p.FeedbackID)
		if err != nil {
			return fmt.Errorf("bad feedback id %q: %w", p.FeedbackID, asynq.SkipRetry)
		}

		feedback, err := lookup.FindByID(ctx, id)
		if err != nil {
			if utils.IsKind(err, utils.KindNotFound) {
				logger.Info("feedback deleted before notification, skipping", zap.String("feedbackId", p.FeedbackID))
				return nil
			}
			return err
		}

		logger.Info("new feedback submitted",
			zap.String("feedbackId", feedback.ID.Hex()),
			zap.String("department", string(feedback.Department)),
			zap.String("name", feedback.Name),
			zap.Time("submittedAt", feedback.CreatedAt),
		)
		return nil
	}
}

// RegisterHandlers binds every task type to its handler.
func RegisterHandlers(mux *asynq.ServeMux, lookup FeedbackLookup, logger *zap.Logger) {
	mux.HandleFunc(TypeFeedbackSubmitted, HandleFeedbackSubmitted(lookup, logger))
}

// Worker processes background tasks from Redis.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewWorker(opt asynq.RedisClientOpt, concurrency int, lookup FeedbackLookup, logger *zap.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Logger:      logger.Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})
	mux := asynq.NewServeMux()
	RegisterHandlers(mux, lookup, logger)
	return &Worker{server: server, mux: mux, logger: logger}
}

// Start begins processing in background goroutines.
func (w *Worker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	w.logger.Info("job worker started")
	return nil
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
	w.logger.Info("job worker stopped")
}
