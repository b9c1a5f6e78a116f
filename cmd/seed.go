package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/nholm/storefront/internal/auth"
	"github.com/nholm/storefront/internal/config"
	"github.com/nholm/storefront/internal/domain"
	"github.com/nholm/storefront/internal/repository"
)

// seedAdmin creates the bootstrap admin account on first run. When the
// account already exists, or no ADMIN_PASSWORD is configured, it does
// nothing.
func seedAdmin(ctx context.Context, admins repository.AdminRepository, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.AdminPassword == "" {
		logger.Warn().Msg("ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	_, err := admins.GetByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrAdminNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	if err := admins.Create(ctx, &domain.Admin{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
	}); err != nil {
		return err
	}

	logger.Info().Str("username", cfg.AdminUsername).Msg("bootstrap admin created")
	return nil
}

// seedCatalog loads a small furniture catalog into an empty products
// collection so a fresh install has something to browse.
func seedCatalog(ctx context.Context, products repository.ProductRepository, logger zerolog.Logger) error {
	existing, err := products.List(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for i := range sampleCatalog {
		if err := products.Create(ctx, &sampleCatalog[i]); err != nil {
			return err
		}
	}

	logger.Info().Int("count", len(sampleCatalog)).Msg("sample catalog seeded")
	return nil
}

var sampleCatalog = []domain.Product{
	{
		Name:        "KALLAX Shelf unit, white",
		Description: "Versatile and sturdy shelving unit, perfect for organizing books and decor.",
		Price:       34.99,
		Category:    "Living Room",
		ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
	},
	{
		Name:        "MALM Bed frame, white",
		Description: "Clean-lined bed frame with headboard, perfect for a modern bedroom.",
		Price:       199.99,
		Category:    "Bedroom",
		ImageURL:    "https://images.unsplash.com/photo-1505693314120-0d443867891c?w=400&h=300&fit=crop",
	},
	{
		Name:        "PAX Wardrobe, white",
		Description: "Customizable wardrobe system with sliding doors and interior fittings.",
		Price:       299.99,
		Category:    "Bedroom",
		ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
	},
	{
		Name:        "EKET Storage combination",
		Description: "Modular storage solution with cabinets and drawers for any room.",
		Price:       89.99,
		Category:    "Living Room",
		ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
	},
	{
		Name:        "LACK Coffee table, black-brown",
		Description: "Simple and sturdy coffee table with a clean, modern design.",
		Price:       24.99,
		Category:    "Living Room",
		ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
	},
	{
		Name:        "MICKE Desk, white",
		Description: "Compact desk with cable management, perfect for home office.",
		Price:       79.99,
		Category:    "Office",
		ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
	},
	{
		Name:        "KIVIK Sofa, gray",
		Description: "Comfortable 3-seat sofa with removable covers for easy cleaning.",
		Price:       499.99,
		Category:    "Living Room",
		ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
	},
	{
		Name:        "BESTÅ TV unit, white",
		Description: "Modern TV storage solution with adjustable shelves and cable management.",
		Price:       149.99,
		Category:    "Living Room",
		ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
	},
	{
		Name:        "HEMNES Bed frame, white",
		Description: "Traditional bed frame with headboard and footboard in solid wood.",
		Price:       299.99,
		Category:    "Bedroom",
		ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
	},
	{
		Name:        "KITCHEN Cart, white",
		Description: "Versatile kitchen cart with wheels and storage for any kitchen.",
		Price:       129.99,
		Category:    "Kitchen & Dining",
		ImageURL:    "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
	},
}
