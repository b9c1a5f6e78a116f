package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nholm/storefront/internal/cache"
	"github.com/nholm/storefront/internal/domain"
	"github.com/nholm/storefront/internal/repository"
)

type mockProductRepo struct {
	m        sync.RWMutex
	products map[primitive.ObjectID]*domain.Product
	order    []primitive.ObjectID
	err      error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*domain.Product)}
}

func (m *mockProductRepo) add(p domain.Product) primitive.ObjectID {
	m.m.Lock()
	defer m.m.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := p
	m.products[p.ID] = &cp
	m.order = append(m.order, p.ID)
	return p.ID
}

func (m *mockProductRepo) Create(_ context.Context, product *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	cp := *product
	m.products[product.ID] = &cp
	m.order = append(m.order, product.ID)
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.RLock()
	defer m.m.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.RLock()
	defer m.m.RUnlock()
	found := make(map[primitive.ObjectID]*domain.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			cp := *p
			found[id] = &cp
		}
	}
	return found, nil
}

func (m *mockProductRepo) List(context.Context, bool) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.RLock()
	defer m.m.RUnlock()
	out := make([]domain.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.products[id])
	}
	return out, nil
}

func (m *mockProductRepo) Update(_ context.Context, id primitive.ObjectID, update domain.ProductUpdate) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Category != nil {
		p.Category = *update.Category
	}
	if update.ImageURL != nil {
		p.ImageURL = *update.ImageURL
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if m.err != nil {
		return m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

type mockConsumerRepo struct {
	m         sync.Mutex
	consumers map[string]*domain.Consumer
	// conflicts makes the next N ReplaceCart calls fail with a stale
	// version, to exercise the retry loop.
	conflicts int
	err       error
}

func newMockConsumerRepo() *mockConsumerRepo {
	return &mockConsumerRepo{consumers: make(map[string]*domain.Consumer)}
}

func (m *mockConsumerRepo) Create(_ context.Context, consumer *domain.Consumer) error {
	if m.err != nil {
		return m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.consumers[consumer.Email]; ok {
		return repository.ErrEmailTaken
	}
	consumer.ID = primitive.NewObjectID()
	consumer.CreatedAt = time.Now()
	cp := *consumer
	m.consumers[consumer.Email] = &cp
	return nil
}

func (m *mockConsumerRepo) GetByEmail(_ context.Context, email string) (*domain.Consumer, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	c, ok := m.consumers[email]
	if !ok {
		return nil, repository.ErrConsumerNotFound
	}
	cp := *c
	cp.Cart = append([]domain.CartLine(nil), c.Cart...)
	return &cp, nil
}

func (m *mockConsumerRepo) UpdatePassword(_ context.Context, email, passwordHash string) error {
	if m.err != nil {
		return m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	c, ok := m.consumers[email]
	if !ok {
		return repository.ErrConsumerNotFound
	}
	c.PasswordHash = passwordHash
	return nil
}

func (m *mockConsumerRepo) ReplaceCart(_ context.Context, email string, cart []domain.CartLine, version int64) error {
	if m.err != nil {
		return m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	c, ok := m.consumers[email]
	if !ok {
		return repository.ErrConsumerNotFound
	}
	if m.conflicts > 0 {
		m.conflicts--
		c.CartVersion++ // a concurrent writer got there first
		return repository.ErrVersionConflict
	}
	if c.CartVersion != version {
		return repository.ErrVersionConflict
	}
	c.Cart = append([]domain.CartLine(nil), cart...)
	c.CartVersion++
	return nil
}

type mockAdminRepo struct {
	admins map[string]*domain.Admin
	err    error
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*domain.Admin)}
}

func (m *mockAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	if m.err != nil {
		return m.err
	}
	admin.ID = primitive.NewObjectID()
	cp := *admin
	m.admins[admin.Username] = &cp
	return nil
}

func (m *mockAdminRepo) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.admins[username]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}
	cp := *a
	return &cp, nil
}

type mockOrderRepo struct {
	m          sync.Mutex
	orders     map[primitive.ObjectID]*domain.Order
	clearedFor []string
	err        error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[primitive.ObjectID]*domain.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepo) CreateAndClearCart(ctx context.Context, order *domain.Order, consumerEmail string) error {
	if err := m.Create(ctx, order); err != nil {
		return err
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.clearedFor = append(m.clearedFor, consumerEmail)
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) List(_ context.Context, consumerEmail string) ([]domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if consumerEmail == "" || o.ConsumerEmail == consumerEmail {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if m.err != nil {
		return m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

type mockCatalogCache struct {
	m           sync.Mutex
	product     map[string]*domain.Product
	list        []domain.Product
	hasList     bool
	invalidated []string
	err         error
}

func newMockCatalogCache() *mockCatalogCache {
	return &mockCatalogCache{product: make(map[string]*domain.Product)}
}

func (m *mockCatalogCache) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.product[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return p, nil
}

func (m *mockCatalogCache) SetProduct(_ context.Context, product *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.product[product.ID.Hex()] = product
	return nil
}

func (m *mockCatalogCache) GetList(context.Context) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	if !m.hasList {
		return nil, cache.ErrCacheMiss
	}
	return m.list, nil
}

func (m *mockCatalogCache) SetList(_ context.Context, products []domain.Product) error {
	if m.err != nil {
		return m.err
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.list = products
	m.hasList = true
	return nil
}

func (m *mockCatalogCache) Invalidate(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.invalidated = append(m.invalidated, id)
	delete(m.product, id)
	m.list = nil
	m.hasList = false
	return m.err
}

type mockPublisher struct {
	m             sync.Mutex
	placed        []*domain.Order
	statusChanged []*domain.Order
	cancelled     []string
}

func (m *mockPublisher) OrderPlaced(_ context.Context, order *domain.Order) {
	m.m.Lock()
	defer m.m.Unlock()
	m.placed = append(m.placed, order)
}

func (m *mockPublisher) OrderStatusChanged(_ context.Context, order *domain.Order) {
	m.m.Lock()
	defer m.m.Unlock()
	m.statusChanged = append(m.statusChanged, order)
}

func (m *mockPublisher) OrderCancelled(_ context.Context, orderID, consumerEmail string) {
	m.m.Lock()
	defer m.m.Unlock()
	m.cancelled = append(m.cancelled, orderID)
}
