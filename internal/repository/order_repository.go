package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nholm/storefront/internal/domain"
)

type mongoOrderRepository struct {
	orders    *mongo.Collection
	consumers *mongo.Collection
	client    *mongo.Client
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		orders:    db.Collection("orders"),
		consumers: db.Collection("consumers"),
		client:    db.Client(),
	}
}

func (m *mongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	prepareOrder(order)

	if _, err := m.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// CreateAndClearCart runs the order insert and the cart wipe in one
// transaction so a crash between them cannot leave a stale cart.
// Requires the server to run as a replica set.
func (m *mongoOrderRepository) CreateAndClearCart(ctx context.Context, order *domain.Order, consumerEmail string) error {
	prepareOrder(order)

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := m.orders.InsertOne(sc, order); err != nil {
			return nil, fmt.Errorf("failed to insert order: %w", err)
		}

		filter := bson.M{"email": consumerEmail}
		update := bson.M{
			"$set": bson.M{"cart": []domain.CartLine{}},
			"$inc": bson.M{"cart_version": 1},
		}
		result, err := m.consumers.UpdateOne(sc, filter, update)
		if err != nil {
			return nil, fmt.Errorf("failed to clear cart: %w", err)
		}
		if result.MatchedCount == 0 {
			return nil, ErrConsumerNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (m *mongoOrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var order domain.Order

	filter := bson.M{"_id": id}
	err := m.orders.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) List(ctx context.Context, consumerEmail string) ([]domain.Order, error) {
	filter := bson.M{}
	if consumerEmail != "" {
		filter["consumer_email"] = consumerEmail
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]domain.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

func (m *mongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"status": status}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order domain.Order
	err := m.orders.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func prepareOrder(order *domain.Order) {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPlaced
	}
}
