package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"employee-feedback/src/models"
)

const TypeFeedbackSubmitted = "feedback:submitted"

type FeedbackSubmittedPayload struct {
	FeedbackID  string    `json:"feedback_id"`
	Department  string    `json:"department"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func NewFeedbackSubmittedTask(feedback *models.Feedback) (*asynq.Task, error) {
	payload, err := json.Marshal(FeedbackSubmittedPayload{
		FeedbackID:  feedback.ID.Hex(),
		Department:  string(feedback.Department),
		SubmittedAt: feedback.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeFeedbackSubmitted, payload), nil
}
