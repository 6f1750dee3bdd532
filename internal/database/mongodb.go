// internal/database/mongodb.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client        *mongo.Client
	Users         *mongo.Collection
	Blogs         *mongo.Collection
	Comments      *mongo.Collection
	Notifications *mongo.Collection
}

var _ Store = (*MongoDB)(nil)

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB")

	db := client.Database(dbName)
	return &MongoDB{
		Client:        client,
		Users:         db.Collection("users"),
		Blogs:         db.Collection("blogs"),
		Comments:      db.Collection("comments"),
		Notifications: db.Collection("notifications"),
	}, nil
}

func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes every collection relies on. Safe to
// call on every startup.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := m.Users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}

	blogIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "blog_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "draft", Value: 1}, {Key: "publishedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "author", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
		},
	}
	if _, err := m.Blogs.Indexes().CreateMany(ctx, blogIndexes); err != nil {
		return fmt.Errorf("failed to create blog indexes: %v", err)
	}

	commentIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "blog_id", Value: 1}, {Key: "commentedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "parent", Value: 1}},
		},
	}
	if _, err := m.Comments.Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return fmt.Errorf("failed to create comment indexes: %v", err)
	}

	notificationIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "notification_for", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "comment", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "blog", Value: 1}},
		},
	}
	if _, err := m.Notifications.Indexes().CreateMany(ctx, notificationIndexes); err != nil {
		return fmt.Errorf("failed to create notification indexes: %v", err)
	}

	return nil
}
