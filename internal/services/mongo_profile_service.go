package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnector/backend/internal/models"
)

type MongoProfileService struct {
	client      *mongo.Client
	db          *mongo.Database
	profilesCol *mongo.Collection
	usersCol    *mongo.Collection
}

func NewMongoProfileService(ctx context.Context, mongoURI, dbName string) (*MongoProfileService, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("profiles")

	// The unique index makes the upsert's create-or-patch atomic: two
	// first-time submissions for the same user cannot both insert.
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &MongoProfileService{
		client:      client,
		db:          db,
		profilesCol: col,
		usersCol:    db.Collection("users"),
	}, nil
}

func (s *MongoProfileService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user": userID}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	s.populate(ctx, &prof)
	return &prof, nil
}

func (s *MongoProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	cur, err := s.profilesCol.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	profiles := make([]*models.Profile, 0)
	userIDs := make([]string, 0)
	for cur.Next(ctx) {
		var prof models.Profile
		if err := cur.Decode(&prof); err != nil {
			return nil, err
		}
		profiles = append(profiles, &prof)
		userIDs = append(userIDs, prof.UserID)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	// One batched lookup instead of a query per profile.
	users, err := s.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for _, prof := range profiles {
		if user, ok := users[prof.UserID]; ok {
			prof.Name = user.Name
			prof.Avatar = user.Avatar
		}
	}
	return profiles, nil
}

func (s *MongoProfileService) Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now()
	set := bson.M{
		"user":       userID,
		"name":       user.Name,
		"avatar":     user.Avatar,
		"updated_at": now,
	}
	if req.Company != "" {
		set["company"] = req.Company
	}
	if req.Image != "" {
		set["image"] = req.Image
	}
	if req.Website != "" {
		set["website"] = req.Website
	}
	if req.Location != "" {
		set["location"] = req.Location
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.Status != "" {
		set["status"] = req.Status
	}
	if req.GithubUsername != "" {
		set["githubusername"] = req.GithubUsername
	}
	if req.Skills != "" {
		set["skills"] = ParseSkills(req.Skills)
	}
	if req.Youtube != "" {
		set["social.youtube"] = req.Youtube
	}
	if req.Facebook != "" {
		set["social.facebook"] = req.Facebook
	}
	if req.Twitter != "" {
		set["social.twitter"] = req.Twitter
	}
	if req.Instagram != "" {
		set["social.instagram"] = req.Instagram
	}
	if req.Linkedin != "" {
		set["social.linkedin"] = req.Linkedin
	}

	setOnInsert := bson.M{
		"_id":        uuid.New().String(),
		"experience": []models.Experience{},
		"education":  []models.Education{},
	}

	_, err := s.profilesCol.UpdateOne(
		ctx,
		bson.M{"user": userID},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// Two first-time submissions can race into the unique index; the
		// loser just patches the winner's document.
		if mongo.IsDuplicateKeyError(err) {
			_, err = s.profilesCol.UpdateOne(ctx, bson.M{"user": userID}, bson.M{"$set": set})
		}
		if err != nil {
			return nil, err
		}
	}

	return s.GetByUserID(ctx, userID)
}

func (s *MongoProfileService) AddExperience(ctx context.Context, userID string, req *models.AddExperienceRequest) (*models.Profile, error) {
	exp := newExperience(req)
	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"user": userID}, bson.M{
		"$push": bson.M{"experience": bson.M{"$each": []models.Experience{exp}, "$position": 0}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}
	return s.GetByUserID(ctx, userID)
}

func (s *MongoProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	// $pull matches by entry id; an unknown id pulls nothing, which keeps
	// removal a no-op rather than dropping an unrelated entry.
	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"user": userID}, bson.M{
		"$pull": bson.M{"experience": bson.M{"id": expID}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}
	return s.GetByUserID(ctx, userID)
}

func (s *MongoProfileService) AddEducation(ctx context.Context, userID string, req *models.AddEducationRequest) (*models.Profile, error) {
	edu := newEducation(req)
	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"user": userID}, bson.M{
		"$push": bson.M{"education": bson.M{"$each": []models.Education{edu}, "$position": 0}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}
	return s.GetByUserID(ctx, userID)
}

func (s *MongoProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"user": userID}, bson.M{
		"$pull": bson.M{"education": bson.M{"id": eduID}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}
	return s.GetByUserID(ctx, userID)
}

func (s *MongoProfileService) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.profilesCol.DeleteOne(ctx, bson.M{"user": userID})
	return err
}

func (s *MongoProfileService) populate(ctx context.Context, prof *models.Profile) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"_id": prof.UserID}).Decode(&user); err == nil {
		prof.Name = user.Name
		prof.Avatar = user.Avatar
	}
}

func (s *MongoProfileService) usersByID(ctx context.Context, ids []string) (map[string]*models.User, error) {
	cur, err := s.usersCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := make(map[string]*models.User)
	for cur.Next(ctx) {
		var user models.User
		if err := cur.Decode(&user); err != nil {
			return nil, err
		}
		users[user.ID] = &user
	}
	return users, cur.Err()
}
