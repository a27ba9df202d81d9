package main

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tanvir-ahmd/chirpline/backend/internal/router"
	"github.com/tanvir-ahmd/chirpline/backend/pkg/config"
	"github.com/tanvir-ahmd/chirpline/backend/pkg/storage"
)

func main() {
	// Initialize database connections (loads .env first)
	db, err := config.InitDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB()

	cfg := config.Load()

	// Initialize the object-storage collaborator
	ctx := context.Background()
	store, err := storage.InitStorage(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, store, cfg)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
