package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/devconnector/backend/internal/models"
)

type MongoUserService struct {
	client   *mongo.Client
	usersCol *mongo.Collection
}

func NewMongoUserService(ctx context.Context, mongoURI, dbName string) (*MongoUserService, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	col := client.Database(dbName).Collection("users")
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &MongoUserService{
		client:   client,
		usersCol: col,
	}, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	count, err := s.usersCol.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Avatar:       GravatarURL(req.Email),
		CreatedAt:    time.Now(),
	}

	if _, err := s.usersCol.InsertOne(ctx, user); err != nil {
		// The unique email index closes the check-then-insert window.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

func (s *MongoUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return &user, nil
}

func (s *MongoUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserService) Delete(ctx context.Context, id string) error {
	_, err := s.usersCol.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
