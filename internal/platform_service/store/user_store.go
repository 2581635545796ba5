package store

import (
	"AgentArena/internal/models"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// MongoUserStore is an implementation of UserStore using MongoDB.
type MongoUserStore struct {
	collection *mongo.Collection
}

// NewMongoUserStore creates a new MongoUserStore and ensures the username index.
func NewMongoUserStore(ctx context.Context, db *mongo.Database, collectionName string) (*MongoUserStore, error) {
	collection := db.Collection(collectionName)

	// 用户名唯一索引，防止重复注册。
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &MongoUserStore{collection: collection}, nil
}

// CreateUser inserts a new user into the database.
func (s *MongoUserStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.collection.InsertOne(ctx, user)
	return err
}

// GetUserByUsername retrieves a user by username.
func (s *MongoUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

// GetUserByEmail retrieves a user by email.
func (s *MongoUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
