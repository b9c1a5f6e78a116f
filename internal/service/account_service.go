package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nholm/storefront/internal/auth"
	"github.com/nholm/storefront/internal/domain"
	"github.com/nholm/storefront/internal/repository"
)

type AccountService struct {
	consumers  repository.ConsumerRepository
	admins     repository.AdminRepository
	sessions   auth.SessionStore
	jwtSecret  []byte
	sessionTTL time.Duration
}

func NewAccountService(
	consumers repository.ConsumerRepository,
	admins repository.AdminRepository,
	sessions auth.SessionStore,
	jwtSecret []byte,
	sessionTTL time.Duration,
) *AccountService {
	return &AccountService{
		consumers:  consumers,
		admins:     admins,
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
	}
}

func (s *AccountService) Signup(ctx context.Context, fullName, email, password string) (*domain.Consumer, error) {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: fullName, email and password are required", domain.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	consumer := &domain.Consumer{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Cart:         []domain.CartLine{},
	}
	if err := s.consumers.Create(ctx, consumer); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		logger.Error().Err(err).Msg("failed to create consumer")
		return nil, err
	}

	return consumer, nil
}

type LoginResult struct {
	FullName string
	Email    string
	Token    string
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	consumer, err := s.consumers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrConsumerNotFound) {
			// Same answer as a bad password, no account probing.
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !auth.CheckPassword(consumer.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := auth.MintToken(s.jwtSecret, consumer.Email, consumer.FullName, auth.RoleConsumer, s.sessionTTL)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, auth.RoleConsumer, consumer.Email, token, s.sessionTTL); err != nil {
		logger.Error().Err(err).Msg("failed to store session")
		return nil, err
	}

	return &LoginResult{
		FullName: consumer.FullName,
		Email:    consumer.Email,
		Token:    token,
	}, nil
}

func (s *AccountService) AdminLogin(ctx context.Context, username, password string) (string, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return "", err
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := auth.MintToken(s.jwtSecret, admin.Username, "", auth.RoleAdmin, s.sessionTTL)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Put(ctx, auth.RoleAdmin, admin.Username, token, s.sessionTTL); err != nil {
		logger.Error().Err(err).Msg("failed to store session")
		return "", err
	}

	return token, nil
}

// ResetPassword replaces the password once the previous one verifies.
func (s *AccountService) ResetPassword(ctx context.Context, email, previousPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}

	consumer, err := s.consumers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrConsumerNotFound) {
			return fmt.Errorf("%w: invalid email or previous password", domain.ErrUnauthorized)
		}
		return err
	}
	if !auth.CheckPassword(consumer.PasswordHash, previousPassword) {
		return fmt.Errorf("%w: invalid email or previous password", domain.ErrUnauthorized)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.consumers.UpdatePassword(ctx, email, hash); err != nil {
		if errors.Is(err, repository.ErrConsumerNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *AccountService) Logout(ctx context.Context, role auth.Role, subject string) error {
	return s.sessions.Delete(ctx, role, subject)
}

// Authenticate validates a bearer token against both its signature and
// the server-side session, so revoked sessions stop working before the
// JWT expires.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(s.jwtSecret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	stored, err := s.sessions.Get(ctx, claims.Role, claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if stored != token {
		return nil, fmt.Errorf("%w: session superseded", domain.ErrUnauthorized)
	}

	return claims, nil
}
