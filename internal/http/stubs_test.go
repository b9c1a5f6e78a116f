package http

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nholm/storefront/internal/auth"
	"github.com/nholm/storefront/internal/domain"
	"github.com/nholm/storefront/internal/service"
)

type stubAccountService struct {
	signupErr error

	loginResult *service.LoginResult
	loginErr    error

	adminToken string
	adminErr   error

	resetErr error

	logoutRole    auth.Role
	logoutSubject string
	logoutErr     error

	claims  *auth.Claims
	authErr error
}

func (s *stubAccountService) Signup(context.Context, string, string, string) (*domain.Consumer, error) {
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &domain.Consumer{ID: primitive.NewObjectID()}, nil
}

func (s *stubAccountService) Login(context.Context, string, string) (*service.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAccountService) AdminLogin(context.Context, string, string) (string, error) {
	return s.adminToken, s.adminErr
}

func (s *stubAccountService) ResetPassword(context.Context, string, string, string) error {
	return s.resetErr
}

func (s *stubAccountService) Logout(_ context.Context, role auth.Role, subject string) error {
	s.logoutRole = role
	s.logoutSubject = subject
	return s.logoutErr
}

func (s *stubAccountService) Authenticate(context.Context, string) (*auth.Claims, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	return s.claims, nil
}

type stubCatalogService struct {
	product   *domain.Product
	products  []domain.Product
	err       error
	lastInput service.CreateProductInput
	newest    bool
	deleted   primitive.ObjectID
}

func (s *stubCatalogService) Create(_ context.Context, input service.CreateProductInput) (*domain.Product, error) {
	s.lastInput = input
	return s.product, s.err
}

func (s *stubCatalogService) Get(context.Context, primitive.ObjectID) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) List(_ context.Context, newestFirst bool) ([]domain.Product, error) {
	s.newest = newestFirst
	return s.products, s.err
}

func (s *stubCatalogService) Update(context.Context, primitive.ObjectID, domain.ProductUpdate) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) Delete(_ context.Context, id primitive.ObjectID) error {
	s.deleted = id
	return s.err
}

type stubCartService struct {
	resolved []domain.ResolvedCartLine
	lines    []domain.CartLine
	err      error

	lastEmail   string
	lastProduct primitive.ObjectID
	cleared     bool
}

func (s *stubCartService) Get(_ context.Context, email string) ([]domain.ResolvedCartLine, error) {
	s.lastEmail = email
	return s.resolved, s.err
}

func (s *stubCartService) Add(_ context.Context, email string, productID primitive.ObjectID) ([]domain.CartLine, error) {
	s.lastEmail = email
	s.lastProduct = productID
	return s.lines, s.err
}

func (s *stubCartService) Remove(_ context.Context, email string, productID primitive.ObjectID) ([]domain.CartLine, error) {
	s.lastEmail = email
	s.lastProduct = productID
	return s.lines, s.err
}

func (s *stubCartService) Clear(_ context.Context, email string) error {
	s.lastEmail = email
	s.cleared = true
	return s.err
}

type stubOrderService struct {
	order  *domain.Order
	orders []domain.Order
	err    error

	placeEmail string
	placeName  string
	placeInput service.PlaceOrderInput

	listEmail string

	statusID primitive.ObjectID
	status   domain.OrderStatus

	cancelID primitive.ObjectID
	cancelBy string
}

func (s *stubOrderService) Place(_ context.Context, consumerEmail, consumerName string, input service.PlaceOrderInput) (*domain.Order, error) {
	s.placeEmail = consumerEmail
	s.placeName = consumerName
	s.placeInput = input
	return s.order, s.err
}

func (s *stubOrderService) List(_ context.Context, consumerEmail string) ([]domain.Order, error) {
	s.listEmail = consumerEmail
	return s.orders, s.err
}

func (s *stubOrderService) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	s.statusID = id
	s.status = status
	return s.order, s.err
}

func (s *stubOrderService) Cancel(_ context.Context, id primitive.ObjectID, requestedBy string) error {
	s.cancelID = id
	s.cancelBy = requestedBy
	return s.err
}

func consumerClaims(email, name string) *auth.Claims {
	claims := &auth.Claims{Name: name, Role: auth.RoleConsumer}
	claims.Subject = email
	return claims
}

func adminClaims(username string) *auth.Claims {
	claims := &auth.Claims{Role: auth.RoleAdmin}
	claims.Subject = username
	return claims
}

func authed(r *http.Request, claims *auth.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims))
}
