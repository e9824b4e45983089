package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"employee-feedback/src/jobs"
	"employee-feedback/src/models"
	"employee-feedback/test"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func TestNewFeedbackSubmittedTask(t *testing.T) {
	rec := test.Feedback("Alice", models.DepartmentHR, models.StatusPending, 0)

	task, err := jobs.NewFeedbackSubmittedTask(&rec)
	require.NoError(t, err)
	assert.Equal(t, jobs.TypeFeedbackSubmitted, task.Type())

	var p jobs.FeedbackSubmittedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, rec.ID.Hex(), p.FeedbackID)
	assert.Equal(t, "HR", p.Department)
	assert.True(t, rec.CreatedAt.Equal(p.SubmittedAt))
}

func TestHandleFeedbackSubmitted(t *testing.T) {
	rec := test.Feedback("Alice", models.DepartmentHR, models.StatusPending, 0)
	store := test.NewMemoryStore(rec)
	logger, logs := observedLogger()
	handler := jobs.HandleFeedbackSubmitted(store, logger)

	task, err := jobs.NewFeedbackSubmittedTask(&rec)
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))

	entries := logs.FilterMessage("new feedback submitted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "HR", entries[0].ContextMap()["department"])
}

func TestHandleFeedbackSubmittedSkipsDeleted(t *testing.T) {
	logger, logs := observedLogger()
	handler := jobs.HandleFeedbackSubmitted(test.NewMemoryStore(), logger)

	gone := test.Feedback("Bob", models.DepartmentSales, models.StatusPending, 0)
	task, err := jobs.NewFeedbackSubmittedTask(&gone)
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	assert.Equal(t, 1, logs.FilterMessage("feedback deleted before notification, skipping").Len())
}

func TestHandleFeedbackSubmittedBadPayload(t *testing.T) {
	handler := jobs.HandleFeedbackSubmitted(test.NewMemoryStore(), zap.NewNop())

	err := handler(context.Background(), asynq.NewTask(jobs.TypeFeedbackSubmitted, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	payload, _ := json.Marshal(jobs.FeedbackSubmittedPayload{FeedbackID: "nope"})
	err = handler(context.Background(), asynq.NewTask(jobs.TypeFeedbackSubmitted, payload))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleFeedbackSubmittedStoreFailureRetries(t *testing.T) {
	store := test.NewMemoryStore()
	store.Err = errors.New("connection reset")
	handler := jobs.HandleFeedbackSubmitted(store, zap.NewNop())

	payload, _ := json.Marshal(jobs.FeedbackSubmittedPayload{FeedbackID: primitive.NewObjectID().Hex()})
	err := handler(context.Background(), asynq.NewTask(jobs.TypeFeedbackSubmitted, payload))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestNotifierRunsInlineWithoutQueue(t *testing.T) {
	rec := test.Feedback("Alice", models.DepartmentHR, models.StatusPending, 0)
	logger, logs := observedLogger()
	notifier := jobs.NewNotifier(nil, test.NewMemoryStore(rec), logger)

	require.NoError(t, notifier.FeedbackSubmitted(context.Background(), &rec))
	assert.Equal(t, 1, logs.FilterMessage("new feedback submitted").Len())
}
