package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"github.com/nholm/storefront/internal/cache"
	"github.com/nholm/storefront/internal/domain"
	"github.com/nholm/storefront/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const invalidateTimeout = time.Second

type CatalogService struct {
	repo  repository.ProductRepository
	cache cache.CatalogCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCatalogService(repo repository.ProductRepository, cache cache.CatalogCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
}

func (s *CatalogService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.invalidate(product.ID.Hex())
	return product, nil
}

// Get serves a product from cache when possible; concurrent misses for
// the same id collapse into one repository read.
func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	v, err, _ := s.sfg.Do("product:"+id.Hex(), func() (interface{}, error) {
		product, err := s.cache.GetProduct(ctx, id.Hex())
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("catalog cache get failed")
		}

		product, err = s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}

		go func() {
			if err := s.cache.SetProduct(context.Background(), product); err != nil {
				logger.Warn().Err(err).Msg("catalog cache set failed")
			}
		}()

		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// List returns products in store-insertion order, or newest first for
// the admin view. Only the insertion-order listing is cached; the
// sorted variant is an admin-only path.
func (s *CatalogService) List(ctx context.Context, newestFirst bool) ([]domain.Product, error) {
	if newestFirst {
		return s.repo.List(ctx, true)
	}

	v, err, _ := s.sfg.Do("products:all", func() (interface{}, error) {
		products, err := s.cache.GetList(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("catalog cache get failed")
		}

		products, err = s.repo.List(ctx, false)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.SetList(context.Background(), products); err != nil {
				logger.Warn().Err(err).Msg("catalog cache set failed")
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *CatalogService) Update(ctx context.Context, id primitive.ObjectID, update domain.ProductUpdate) (*domain.Product, error) {
	if update.Price != nil && *update.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}

	product, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domain.ErrNotFound
		}
		logger.Error().Err(err).Str("product_id", id.Hex()).Msg("failed to update product")
		return nil, err
	}

	s.invalidate(id.Hex())
	return product, nil
}

// Delete removes a product from the catalog. Existing order snapshots
// keep their copy of the product; a second delete reports NotFound,
// which callers treat as already gone.
func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domain.ErrNotFound
		}
		logger.Error().Err(err).Str("product_id", id.Hex()).Msg("failed to delete product")
		return err
	}

	s.invalidate(id.Hex())
	return nil
}

func (s *CatalogService) invalidate(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.Warn().Err(err).Str("product_id", id).Msg("catalog cache invalidate failed")
	}
}

func validateProductInput(input CreateProductInput) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case strings.TrimSpace(input.Description) == "":
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	case strings.TrimSpace(input.ImageURL) == "":
		return fmt.Errorf("%w: imageUrl is required", domain.ErrValidation)
	case input.Price < 0:
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return nil
}
