package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoAccountService struct {
	client      *mongo.Client
	postsCol    *mongo.Collection
	profilesCol *mongo.Collection
	usersCol    *mongo.Collection
}

func NewMongoAccountService(ctx context.Context, mongoURI, dbName string) (*MongoAccountService, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	return &MongoAccountService{
		client:      client,
		postsCol:    db.Collection("posts"),
		profilesCol: db.Collection("profiles"),
		usersCol:    db.Collection("users"),
	}, nil
}

func (s *MongoAccountService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// DeleteAccount removes the user's posts, then their profile, then the user
// record. There is no rollback; a failure part-way leaves the earlier
// deletions in place and surfaces as an error to the caller.
func (s *MongoAccountService) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.postsCol.DeleteMany(ctx, bson.M{"user": userID}); err != nil {
		return err
	}
	if _, err := s.profilesCol.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		return err
	}
	_, err := s.usersCol.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
