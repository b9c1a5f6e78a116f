package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nholm/storefront/internal/domain"
	"github.com/nholm/storefront/internal/events"
	"github.com/nholm/storefront/internal/repository"
)

// totalTolerance is the largest deviation accepted between the
// submitted total and the server-computed one. Anything past half a
// cent is a tampered or mispriced order.
const totalTolerance = 0.005

type OrderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	publisher events.Publisher
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, publisher events.Publisher) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		publisher: publisher,
	}
}

type OrderLineInput struct {
	ProductID primitive.ObjectID
	Quantity  int
}

type PlaceOrderInput struct {
	Items         []OrderLineInput
	Address       domain.Address
	PaymentMethod domain.PaymentMethod
	Total         float64
	ClearCart     bool
}

// Place validates the request, snapshots each product from the catalog
// and prices the order server side; the caller's total is only checked
// against the authoritative one, never stored.
func (s *OrderService) Place(ctx context.Context, consumerEmail, consumerName string, input PlaceOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one product", domain.ErrValidation)
	}
	if err := validateAddress(input.Address); err != nil {
		return nil, err
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, input.PaymentMethod)
	}

	items, err := s.snapshotItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	quote := PriceOrder(items)
	if math.Abs(quote.Total-input.Total) > totalTolerance {
		return nil, fmt.Errorf("%w: submitted total %.2f does not match computed total %.2f",
			domain.ErrValidation, input.Total, quote.Total)
	}

	order := &domain.Order{
		ConsumerEmail: consumerEmail,
		ConsumerName:  consumerName,
		Products:      items,
		Address:       input.Address,
		PaymentMethod: input.PaymentMethod,
		Total:         quote.Total,
		Status:        domain.OrderStatusPlaced,
	}

	if input.ClearCart {
		err = s.orders.CreateAndClearCart(ctx, order, consumerEmail)
	} else {
		err = s.orders.Create(ctx, order)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConsumerNotFound) {
			return nil, domain.ErrNotFound
		}
		logger.Error().Err(err).Str("email", consumerEmail).Msg("failed to place order")
		return nil, err
	}

	s.publisher.OrderPlaced(ctx, order)
	return order, nil
}

// List returns orders newest first, optionally only one consumer's.
func (s *OrderService) List(ctx context.Context, consumerEmail string) ([]domain.Order, error) {
	return s.orders.List(ctx, consumerEmail)
}

func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus replaces the status with any member of the status enum;
// there is deliberately no transition graph.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", domain.ErrValidation)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domain.ErrNotFound
		}
		logger.Error().Err(err).Str("order_id", id.Hex()).Msg("failed to update order status")
		return nil, err
	}

	s.publisher.OrderStatusChanged(ctx, order)
	return order, nil
}

// Cancel hard-deletes the order. When requestedBy is non-empty the
// order must belong to that consumer; admins pass an empty string.
func (s *OrderService) Cancel(ctx context.Context, id primitive.ObjectID, requestedBy string) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if requestedBy != "" && order.ConsumerEmail != requestedBy {
		// Don't leak that the order exists.
		return domain.ErrNotFound
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domain.ErrNotFound
		}
		logger.Error().Err(err).Str("order_id", id.Hex()).Msg("failed to delete order")
		return err
	}

	s.publisher.OrderCancelled(ctx, id.Hex(), order.ConsumerEmail)
	return nil
}

func (s *OrderService) snapshotItems(ctx context.Context, lines []OrderLineInput) ([]domain.OrderItem, error) {
	ids := make([]primitive.ObjectID, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %s is no longer available", domain.ErrValidation, line.ProductID.Hex())
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			ImageURL:  product.ImageURL,
		})
	}
	return items, nil
}

func validateAddress(addr domain.Address) error {
	fields := map[string]string{
		"fullName":   addr.FullName,
		"phone":      addr.Phone,
		"street":     addr.Street,
		"city":       addr.City,
		"postalCode": addr.PostalCode,
		"country":    addr.Country,
	}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: address field %s is required", domain.ErrValidation, name)
		}
	}
	return nil
}
