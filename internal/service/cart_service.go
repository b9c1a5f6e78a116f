package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nholm/storefront/internal/domain"
	"github.com/nholm/storefront/internal/repository"
)

// cartWriteRetries bounds the optimistic-lock retry loop. Contention on
// a single consumer's cart is rare; three attempts is plenty.
const cartWriteRetries = 3

type CartService struct {
	consumers repository.ConsumerRepository
	products  repository.ProductRepository
}

func NewCartService(consumers repository.ConsumerRepository, products repository.ProductRepository) *CartService {
	return &CartService{
		consumers: consumers,
		products:  products,
	}
}

// Get returns the cart with every line resolved against the catalog.
// Lines whose product has been deleted come back with a nil Product.
func (s *CartService) Get(ctx context.Context, email string) ([]domain.ResolvedCartLine, error) {
	consumer, err := s.consumers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrConsumerNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(consumer.Cart))
	for _, line := range consumer.Cart {
		ids = append(ids, line.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.ResolvedCartLine, 0, len(consumer.Cart))
	for _, line := range consumer.Cart {
		resolved = append(resolved, domain.ResolvedCartLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Product:   products[line.ProductID],
		})
	}
	return resolved, nil
}

// Add puts one unit of the product into the cart, incrementing the
// existing line instead of duplicating it.
func (s *CartService) Add(ctx context.Context, email string, productID primitive.ObjectID) ([]domain.CartLine, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID.Hex())
		}
		return nil, err
	}

	return s.mutate(ctx, email, func(cart []domain.CartLine) []domain.CartLine {
		for i := range cart {
			if cart[i].ProductID == productID {
				cart[i].Quantity++
				return cart
			}
		}
		return append(cart, domain.CartLine{ProductID: productID, Quantity: 1})
	})
}

// Remove drops the line for the product. A missing line is not an
// error; the cart is simply returned unchanged.
func (s *CartService) Remove(ctx context.Context, email string, productID primitive.ObjectID) ([]domain.CartLine, error) {
	return s.mutate(ctx, email, func(cart []domain.CartLine) []domain.CartLine {
		kept := cart[:0]
		for _, line := range cart {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		return kept
	})
}

func (s *CartService) Clear(ctx context.Context, email string) error {
	_, err := s.mutate(ctx, email, func([]domain.CartLine) []domain.CartLine {
		return []domain.CartLine{}
	})
	return err
}

// mutate is a read-modify-write guarded by the cart version counter;
// stale writes are retried against a fresh read instead of clobbering
// a concurrent update.
func (s *CartService) mutate(ctx context.Context, email string, fn func([]domain.CartLine) []domain.CartLine) ([]domain.CartLine, error) {
	var lastErr error
	for attempt := 0; attempt < cartWriteRetries; attempt++ {
		consumer, err := s.consumers.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrConsumerNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}

		cart := fn(append([]domain.CartLine(nil), consumer.Cart...))
		err = s.consumers.ReplaceCart(ctx, email, cart, consumer.CartVersion)
		if err == nil {
			return cart, nil
		}
		if errors.Is(err, repository.ErrConsumerNotFound) {
			return nil, domain.ErrNotFound
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
		logger.Debug().Str("email", email).Int("attempt", attempt+1).Msg("cart version conflict, retrying")
	}
	return nil, fmt.Errorf("cart update kept conflicting: %w", lastErr)
}
