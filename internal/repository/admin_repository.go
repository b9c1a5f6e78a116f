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

type mongoAdminRepository struct {
	collection *mongo.Collection
}

func NewMongoAdminRepository(db *mongo.Database) AdminRepository {
	return &mongoAdminRepository{
		collection: db.Collection("admins"),
	}
}

func (m *mongoAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now()
	}

	_, err := m.collection.InsertOne(ctx, admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("admin %q already exists: %w", admin.Username, err)
		}
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return nil
}

func (m *mongoAdminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var admin domain.Admin

	filter := bson.M{"username": username}
	err := m.collection.FindOne(ctx, filter).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &admin, nil
}
