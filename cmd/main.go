package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nholm/storefront/internal/auth"
	"github.com/nholm/storefront/internal/cache"
	"github.com/nholm/storefront/internal/config"
	"github.com/nholm/storefront/internal/events"
	h "github.com/nholm/storefront/internal/http"
	"github.com/nholm/storefront/internal/repository"
	"github.com/nholm/storefront/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	productRepo := repository.NewMongoProductRepository(db)
	consumerRepo := repository.NewMongoConsumerRepository(db)
	adminRepo := repository.NewMongoAdminRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)

	publisher := events.FromConfig(cfg.KafkaBrokers, cfg.KafkaTopic)

	catalogCache := cache.NewRedisCache(redisClient)
	sessions := auth.NewRedisSessionStore(redisClient)

	accountSvc := service.NewAccountService(consumerRepo, adminRepo, sessions, []byte(cfg.JWTSecret), cfg.SessionTTL)
	catalogSvc := service.NewCatalogService(productRepo, catalogCache)
	cartSvc := service.NewCartService(consumerRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, publisher)

	if err := seedAdmin(ctx, adminRepo, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed admin account")
	}
	if cfg.SeedSampleData {
		if err := seedCatalog(ctx, productRepo, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed sample catalog")
		}
	}

	router := h.NewRouter(
		h.RouterConfig{RequestTimeout: cfg.RequestTimeout},
		h.NewAccountHandler(accountSvc),
		h.NewProductHandler(catalogSvc),
		h.NewCartHandler(cartSvc),
		h.NewOrderHandler(orderSvc),
		h.Authenticator(accountSvc),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("storefront API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
