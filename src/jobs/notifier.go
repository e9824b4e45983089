package jobs

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"employee-feedback/src/models"
)

// Notifier enqueues submission notifications. Without a queue client the
// handler runs inline.
type Notifier struct {
	client *asynq.Client
	inline asynq.HandlerFunc
	logger *zap.Logger
}

func NewNotifier(client *asynq.Client, lookup FeedbackLookup, logger *zap.Logger) *Notifier {
	return &Notifier{
		client: client,
		inline: HandleFeedbackSubmitted(lookup, logger),
		logger: logger,
	}
}

func (n *Notifier) FeedbackSubmitted(ctx context.Context, feedback *models.Feedback) error {
	task, err := NewFeedbackSubmittedTask(feedback)
	if err != nil {
		return err
	}

	if n.client == nil {
		return n.inline(ctx, task)
	}

	info, err := n.client.EnqueueContext(ctx, task,
		asynq.TaskID("feedback-submitted-"+feedback.ID.Hex()),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}
	n.logger.Debug("enqueued task", zap.String("type", info.Type), zap.String("taskId", info.ID))
	return nil
}
