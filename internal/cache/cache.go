package cache

import (
	"context"
	"errors"

	"github.com/nholm/storefront/internal/domain"
)

type CatalogCache interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	GetList(ctx context.Context) ([]domain.Product, error)
	SetList(ctx context.Context, products []domain.Product) error
	// Invalidate drops both the product entry and the list entry;
	// any catalog mutation makes the cached list stale.
	Invalidate(ctx context.Context, id string) error
}

var ErrCacheMiss = errors.New("cache miss")
