package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"employee-feedback/src/config"
)

// Mongo wraps the MongoDB client and the feedback collection.
type Mongo struct {
	Client     *mongo.Client
	Feedbacks  *mongo.Collection
	timeoutCfg config.MongoConfig
}

// ConnectMongoDB connects and pings the primary before returning.
func ConnectMongoDB(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("mongodb connected", zap.String("database", cfg.Database), zap.String("collection", cfg.Collection))

	return &Mongo{
		Client:     client,
		Feedbacks:  client.Database(cfg.Database).Collection(cfg.Collection),
		timeoutCfg: cfg,
	}, nil
}

// EnsureIndexes creates the indexes the listing and statistics queries rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeoutCfg.Timeout())
	defer cancel()

	_, err := m.Feedbacks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "department", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

// Ping verifies MongoDB connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return fmt.Errorf("mongodb client not configured")
	}
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}
