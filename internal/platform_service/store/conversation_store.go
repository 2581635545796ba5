package store

import (
	"AgentArena/internal/models"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationStore defines the interface for conversation persistence.
type ConversationStore interface {
	AppendMessages(ctx context.Context, record *models.ConversationRecord, messages []models.ChatMessage) error
	GetByID(ctx context.Context, id string) (*models.ConversationRecord, error)
	GetByUserID(ctx context.Context, userID string, page, limit int) ([]*models.ConversationRecord, error)
}

// MongoConversationStore is an implementation of ConversationStore using MongoDB.
type MongoConversationStore struct {
	collection *mongo.Collection
}

// NewMongoConversationStore creates a new MongoConversationStore.
func NewMongoConversationStore(db *mongo.Database, collectionName string) *MongoConversationStore {
	return &MongoConversationStore{
		collection: db.Collection(collectionName),
	}
}

// AppendMessages 将若干消息追加到会话，会话不存在时创建。
func (s *MongoConversationStore) AppendMessages(ctx context.Context, record *models.ConversationRecord, messages []models.ChatMessage) error {
	now := time.Now()
	filter := bson.M{"_id": record.ID}
	update := bson.M{
		"$push": bson.M{"messages": bson.M{"$each": messages}},
		"$set": bson.M{
			"updated_at": now,
			"agent_name": record.AgentName,
			"model":      record.Model,
		},
		"$setOnInsert": bson.M{
			"user_id":    record.UserID,
			"created_at": now,
		},
	}
	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByID retrieves a conversation by its ID.
func (s *MongoConversationStore) GetByID(ctx context.Context, id string) (*models.ConversationRecord, error) {
	var record models.ConversationRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByUserID retrieves a paginated list of conversations for a specific user.
func (s *MongoConversationStore) GetByUserID(ctx context.Context, userID string, page, limit int) ([]*models.ConversationRecord, error) {
	var records []*models.ConversationRecord
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "updated_at", Value: -1}})
	opts.SetSkip(int64((page - 1) * limit))
	opts.SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
