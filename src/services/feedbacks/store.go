package feedbacks

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"employee-feedback/src/models"
	"employee-feedback/src/utils"
)

// Store is the persistence contract the feedback service consumes.
type Store interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	Find(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error)
	Update(ctx context.Context, id primitive.ObjectID, update models.FeedbackUpdate) (*models.Feedback, error)
	UpdateMany(ctx context.Context, ids []primitive.ObjectID, update models.FeedbackUpdate) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	Ping(ctx context.Context) error
}

// MongoStore implements Store and stats.Reader on a MongoDB collection.
type MongoStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore binds a store to the feedback collection.
func NewMongoStore(coll *mongo.Collection, timeout time.Duration) *MongoStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MongoStore{coll: coll, timeout: timeout}
}

// Create inserts feedback, assigning a new ObjectID.
func (s *MongoStore) Create(ctx context.Context, feedback *models.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	feedback.ID = primitive.NewObjectID()
	if _, err := s.coll.InsertOne(ctx, feedback); err != nil {
		return utils.NewStoreUnavailable("create feedback", err)
	}
	return nil
}

// Find returns feedback matching filter, newest first.
func (s *MongoStore) Find(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := bson.M{}
	if filter.Department != "" {
		query["department"] = filter.Department
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, utils.NewStoreUnavailable("fetch feedback", err)
	}
	defer cursor.Close(ctx)

	feedback := make([]models.Feedback, 0)
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, utils.NewStoreUnavailable("decode feedback", err)
	}
	return feedback, nil
}

// FindByID returns one record or a not-found error.
func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var feedback models.Feedback
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFound("Feedback")
		}
		return nil, utils.NewStoreUnavailable("fetch feedback", err)
	}
	return &feedback, nil
}

// Update applies update to one record and returns the new version.
func (s *MongoStore) Update(ctx context.Context, id primitive.ObjectID, update models.FeedbackUpdate) (*models.Feedback, error) {
	if update.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var feedback models.Feedback
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update.SetDocument()}, opts).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFound("Feedback")
		}
		return nil, utils.NewStoreUnavailable("update feedback", err)
	}
	return &feedback, nil
}

// UpdateMany applies update to every existing id and reports how many changed.
func (s *MongoStore) UpdateMany(ctx context.Context, ids []primitive.ObjectID, update models.FeedbackUpdate) (int64, error) {
	if len(ids) == 0 || update.IsEmpty() {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": update.SetDocument()})
	if err != nil {
		return 0, utils.NewStoreUnavailable("update feedback", err)
	}
	return res.ModifiedCount, nil
}

// Delete removes one record or returns a not-found error.
func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return utils.NewStoreUnavailable("delete feedback", err)
	}
	if res.DeletedCount == 0 {
		return utils.NewNotFound("Feedback")
	}
	return nil
}

// DeleteMany removes every existing id and reports how many were removed.
func (s *MongoStore) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, utils.NewStoreUnavailable("delete feedback", err)
	}
	return res.DeletedCount, nil
}

// Ping checks that the backing deployment answers.
func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.coll.Database().Client().Ping(ctx, nil)
}

// AggregateStats runs every statistics grouping in one $facet round trip.
func (s *MongoStore) AggregateStats(ctx context.Context, window models.StatsWindow) (models.StatsAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.coll.Aggregate(ctx, statsPipeline(window))
	if err != nil {
		return models.StatsAggregate{}, utils.NewStoreUnavailable("aggregate feedback stats", err)
	}
	defer cursor.Close(ctx)

	var agg models.StatsAggregate
	if cursor.Next(ctx) {
		if err := cursor.Decode(&agg); err != nil {
			return models.StatsAggregate{}, utils.NewStoreUnavailable("decode feedback stats", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return models.StatsAggregate{}, utils.NewStoreUnavailable("aggregate feedback stats", err)
	}
	return agg, nil
}

func statsPipeline(window models.StatsWindow) mongo.Pipeline {
	countBy := func(field string) bson.M {
		return bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}
	}
	between := func(from time.Time) bson.M {
		return bson.M{"$match": bson.M{"createdAt": bson.M{"$gte": from, "$lte": window.Now}}}
	}

	return mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "count"}},
			"byDepartment": bson.A{
				countBy("department"),
				bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
			},
			"byStatus": bson.A{
				countBy("status"),
				bson.M{"$sort": bson.D{{Key: "_id", Value: 1}}},
			},
			"recentActivity": bson.A{
				between(window.RecentSince),
				bson.M{"$group": bson.M{
					"_id": bson.M{"$dateToString": bson.M{
						"format":   "%Y-%m-%d",
						"date":     "$createdAt",
						"timezone": "UTC",
					}},
					"count": bson.M{"$sum": 1},
				}},
				bson.M{"$sort": bson.D{{Key: "_id", Value: 1}}},
			},
			"averageWindow": bson.A{
				between(window.AverageSince),
				bson.M{"$count": "count"},
			},
		}}},
	}
}
