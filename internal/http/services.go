package http

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nholm/storefront/internal/auth"
	"github.com/nholm/storefront/internal/domain"
	"github.com/nholm/storefront/internal/service"
)

// The handlers define the service surface they consume, not the
// implementations.

type AccountService interface {
	Signup(ctx context.Context, fullName, email, password string) (*domain.Consumer, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	AdminLogin(ctx context.Context, username, password string) (string, error)
	ResetPassword(ctx context.Context, email, previousPassword, newPassword string) error
	Logout(ctx context.Context, role auth.Role, subject string) error
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

type CatalogService interface {
	Create(ctx context.Context, input service.CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	List(ctx context.Context, newestFirst bool) ([]domain.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CartService interface {
	Get(ctx context.Context, email string) ([]domain.ResolvedCartLine, error)
	Add(ctx context.Context, email string, productID primitive.ObjectID) ([]domain.CartLine, error)
	Remove(ctx context.Context, email string, productID primitive.ObjectID) ([]domain.CartLine, error)
	Clear(ctx context.Context, email string) error
}

type OrderService interface {
	Place(ctx context.Context, consumerEmail, consumerName string, input service.PlaceOrderInput) (*domain.Order, error)
	List(ctx context.Context, consumerEmail string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, id primitive.ObjectID, requestedBy string) error
}
