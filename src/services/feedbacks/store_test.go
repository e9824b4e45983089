package feedbacks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"employee-feedback/src/models"
	"employee-feedback/src/services/feedbacks"
	"employee-feedback/src/services/stats"
	"employee-feedback/src/utils"
	"employee-feedback/test"
)

func namespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + mt.Coll.Name()
}

func feedbackDoc(f models.Feedback) bson.D {
	return bson.D{
		{Key: "_id", Value: f.ID},
		{Key: "name", Value: f.Name},
		{Key: "department", Value: string(f.Department)},
		{Key: "message", Value: f.Message},
		{Key: "status", Value: string(f.Status)},
		{Key: "isRead", Value: f.IsRead},
		{Key: "notes", Value: f.Notes},
		{Key: "createdAt", Value: f.CreatedAt},
	}
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		f := test.Feedback("Alice", models.DepartmentHR, models.StatusPending, 0)
		f.ID = primitive.NilObjectID
		require.NoError(mt, store.Create(ctx, &f))
		assert.False(mt, f.ID.IsZero())
	})

	mt.Run("find decodes records", func(mt *mtest.T) {
		a := test.Feedback("Alice", models.DepartmentHR, models.StatusPending, 0)
		b := test.Feedback("Bob", models.DepartmentHR, models.StatusResolved, 2)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, feedbackDoc(a), feedbackDoc(b)))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		got, err := store.Find(ctx, models.FeedbackFilter{Department: models.DepartmentHR})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, a.ID, got[0].ID)
		assert.Equal(mt, models.StatusResolved, got[1].Status)
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		_, err := store.FindByID(ctx, primitive.NewObjectID())
		assert.True(mt, utils.IsKind(err, utils.KindNotFound))
		assert.EqualError(mt, err, "Feedback not found")
	})

	mt.Run("update returns new version", func(mt *mtest.T) {
		f := test.Feedback("Alice", models.DepartmentHR, models.StatusReviewed, 0)
		f.Notes = "ok"
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: feedbackDoc(f)}))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		got, err := store.Update(ctx, f.ID, models.FeedbackUpdate{Status: test.StatusPtr(models.StatusReviewed), Notes: test.StringPtr("ok")})
		require.NoError(mt, err)
		assert.Equal(mt, models.StatusReviewed, got.Status)
		assert.Equal(mt, "ok", got.Notes)
	})

	mt.Run("update missing record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		_, err := store.Update(ctx, primitive.NewObjectID(), models.FeedbackUpdate{IsRead: test.BoolPtr(true)})
		assert.True(mt, utils.IsKind(err, utils.KindNotFound))
	})

	mt.Run("update many reports modified count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 3},
			bson.E{Key: "nModified", Value: 2},
		))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
		modified, err := store.UpdateMany(ctx, ids, models.FeedbackUpdate{IsRead: test.BoolPtr(true)})
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), modified)
	})

	mt.Run("delete missing record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		err := store.Delete(ctx, primitive.NewObjectID())
		assert.True(mt, utils.IsKind(err, utils.KindNotFound))
	})

	mt.Run("delete many reports deleted count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		deleted, err := store.DeleteMany(ctx, []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()})
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), deleted)
	})

	mt.Run("aggregate stats decodes facet", func(mt *mtest.T) {
		facet := bson.D{
			{Key: "total", Value: bson.A{bson.D{{Key: "count", Value: int32(3)}}}},
			{Key: "byDepartment", Value: bson.A{
				bson.D{{Key: "_id", Value: "HR"}, {Key: "count", Value: int32(2)}},
				bson.D{{Key: "_id", Value: "Sales"}, {Key: "count", Value: int32(1)}},
			}},
			{Key: "byStatus", Value: bson.A{
				bson.D{{Key: "_id", Value: "pending"}, {Key: "count", Value: int32(3)}},
			}},
			{Key: "recentActivity", Value: bson.A{
				bson.D{{Key: "_id", Value: "2026-10-15"}, {Key: "count", Value: int32(3)}},
			}},
			{Key: "averageWindow", Value: bson.A{bson.D{{Key: "count", Value: int32(3)}}}},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, facet))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		summary, err := stats.NewService(store, test.Clock()).Compute(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), summary.TotalCount)
		assert.Equal(mt, []models.GroupCount{{Value: "HR", Count: 2}, {Value: "Sales", Count: 1}}, summary.ByDepartment)
		assert.Equal(mt, []models.GroupCount{{Value: "2026-10-15", Count: 3}}, summary.RecentActivity)
		assert.Equal(mt, "0.10", summary.AvgPerDay)
	})

	mt.Run("aggregate stats on empty collection", func(mt *mtest.T) {
		facet := bson.D{
			{Key: "total", Value: bson.A{}},
			{Key: "byDepartment", Value: bson.A{}},
			{Key: "byStatus", Value: bson.A{}},
			{Key: "recentActivity", Value: bson.A{}},
			{Key: "averageWindow", Value: bson.A{}},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, facet))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		summary, err := stats.NewService(store, test.Clock()).Compute(ctx)
		require.NoError(mt, err)
		assert.Zero(mt, summary.TotalCount)
		assert.Empty(mt, summary.ByDepartment)
		assert.Equal(mt, "0.00", summary.AvgPerDay)
	})

	mt.Run("command failure is store unavailable", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))
		store := feedbacks.NewMongoStore(mt.Coll, time.Second)

		_, err := store.Find(ctx, models.FeedbackFilter{})
		require.Error(mt, err)
		assert.True(mt, utils.IsKind(err, utils.KindStoreUnavailable))
		assert.Contains(mt, err.Error(), "failed to fetch feedback")
	})
}
