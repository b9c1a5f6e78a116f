package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nholm/storefront/internal/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrConsumerNotFound = errors.New("consumer not found")
	ErrAdminNotFound    = errors.New("admin not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrVersionConflict  = errors.New("cart version conflict")
)

// ProductRepository defines catalog storage operations. Consumers of
// the repository define these interfaces, not the MongoDB implementation.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.Product, error)
	List(ctx context.Context, newestFirst bool) ([]domain.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ConsumerRepository interface {
	Create(ctx context.Context, consumer *domain.Consumer) error
	GetByEmail(ctx context.Context, email string) (*domain.Consumer, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	// ReplaceCart writes the whole cart guarded by the consumer's
	// cart version; a stale version yields ErrVersionConflict.
	ReplaceCart(ctx context.Context, email string, cart []domain.CartLine, version int64) error
}

type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	// CreateAndClearCart persists the order and empties the consumer's
	// cart inside one transaction.
	CreateAndClearCart(ctx context.Context, order *domain.Order, consumerEmail string) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	List(ctx context.Context, consumerEmail string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
