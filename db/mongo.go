package db

import (
	"context"
	"fmt"
	"time"

	"found-music-bot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoDatabase = "found-music-bot"

type MongoClient struct {
	client *mongo.Client
}

func NewMongoClient(ctx context.Context, uri string) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}
	return &MongoClient{client: client}, nil
}

func (c *MongoClient) Close() error {
	if c.client != nil {
		return c.client.Disconnect(context.Background())
	}
	return nil
}

func (c *MongoClient) lookups() *mongo.Collection {
	return c.client.Database(mongoDatabase).Collection("lookups")
}

func (c *MongoClient) Record(ctx context.Context, l models.Lookup) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if _, err := c.lookups().InsertOne(ctx, l); err != nil {
		return fmt.Errorf("failed to insert lookup: %w", err)
	}
	return nil
}

// Stats counts every lookup of chatID; chatID 0 counts all chats.
func (c *MongoClient) Stats(ctx context.Context, chatID int64) (models.LookupStats, error) {
	match := bson.D{}
	if chatID != 0 {
		match = bson.D{{Key: "chat_id", Value: chatID}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$outcome"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := c.lookups().Aggregate(ctx, pipeline)
	if err != nil {
		return models.LookupStats{}, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats models.LookupStats
	for cursor.Next(ctx) {
		var row struct {
			Outcome string `bson:"_id"`
			Count   int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return models.LookupStats{}, fmt.Errorf("failed to decode stats row: %w", err)
		}
		addOutcome(&stats, row.Outcome, row.Count)
	}
	return stats, cursor.Err()
}
