package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// NewMongo connects to MongoDB, checks the connection and makes sure the
// business-key indexes exist. The caller disconnects the returned client.
func NewMongo(ctx context.Context, uri, name string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := client.Database(name)

	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, db, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{
			collection: "members",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "memberID", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: "members",
			model:      mongo.IndexModel{Keys: bson.D{{Key: "assignedAgent", Value: 1}}},
		},
		{
			collection: "agents",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "agentID", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: "funds",
			model:      mongo.IndexModel{Keys: bson.D{{Key: "memberID", Value: 1}}},
		},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("creating index on %s: %w", idx.collection, err)
		}
	}

	return nil
}
