package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nholm/storefront/internal/domain"
)

type mongoConsumerRepository struct {
	collection *mongo.Collection
}

func NewMongoConsumerRepository(db *mongo.Database) ConsumerRepository {
	return &mongoConsumerRepository{
		collection: db.Collection("consumers"),
	}
}

func (m *mongoConsumerRepository) Create(ctx context.Context, consumer *domain.Consumer) error {
	if consumer.ID.IsZero() {
		consumer.ID = primitive.NewObjectID()
	}
	if consumer.CreatedAt.IsZero() {
		consumer.CreatedAt = time.Now()
	}
	if consumer.Cart == nil {
		consumer.Cart = []domain.CartLine{}
	}

	_, err := m.collection.InsertOne(ctx, consumer)
	if err != nil {
		// Uniqueness is enforced by the email index, so a concurrent
		// signup with the same email cannot slip through a prior
		// exists-check.
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to insert consumer: %w", err)
	}
	return nil
}

func (m *mongoConsumerRepository) GetByEmail(ctx context.Context, email string) (*domain.Consumer, error) {
	var consumer domain.Consumer

	filter := bson.M{"email": email}
	err := m.collection.FindOne(ctx, filter).Decode(&consumer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrConsumerNotFound
		}
		return nil, fmt.Errorf("failed to get consumer: %w", err)
	}

	return &consumer, nil
}

func (m *mongoConsumerRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	filter := bson.M{"email": email}
	update := bson.M{"$set": bson.M{"password_hash": passwordHash}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrConsumerNotFound
	}
	return nil
}

func (m *mongoConsumerRepository) ReplaceCart(ctx context.Context, email string, cart []domain.CartLine, version int64) error {
	if cart == nil {
		cart = []domain.CartLine{}
	}

	// The version in the filter rejects writes racing against another
	// mutation of the same document (last-write-wins is not acceptable
	// for cart updates).
	filter := bson.M{"email": email, "cart_version": version}
	update := bson.M{
		"$set": bson.M{"cart": cart},
		"$inc": bson.M{"cart_version": 1},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to replace cart: %w", err)
	}
	if result.MatchedCount == 0 {
		// Either the consumer is gone or the version moved on.
		count, countErr := m.collection.CountDocuments(ctx, bson.M{"email": email})
		if countErr != nil {
			return fmt.Errorf("failed to check consumer existence: %w", countErr)
		}
		if count == 0 {
			return ErrConsumerNotFound
		}
		return ErrVersionConflict
	}
	return nil
}
