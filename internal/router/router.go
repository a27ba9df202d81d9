package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/tanvir-ahmd/chirpline/backend/internal/handlers"
	"github.com/tanvir-ahmd/chirpline/backend/internal/middleware"
	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/repositories"
	"github.com/tanvir-ahmd/chirpline/backend/internal/services"
	"github.com/tanvir-ahmd/chirpline/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, storage services.ObjectStorage, cfg *config.Config) {
	// AutoMigrate the PostgreSQL side (notifications only; users and posts
	// live in MongoDB)
	if err := pgdb.AutoMigrate(&models.Notification{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate models")
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	mongoDB := mgClient.Database("chirpline")
	userRepo := repositories.NewMongoUserRepository(mongoDB)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Services ---
	socialService := services.NewSocialService(userRepo, notificationRepo, storage)
	engagementService := services.NewEngagementService(postRepo, userRepo, notificationRepo, storage)
	feedService := services.NewFeedService(postRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(e.Group("/auth"))

	// --- Protected routes ---
	authRequired := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	session := e.Group("")
	session.Use(authRequired)
	authHandler.RegisterSessionRoutes(session)

	userHandler := handlers.NewUserHandler(socialService)
	userGroup := e.Group("/user")
	userGroup.Use(authRequired)
	userHandler.RegisterUserRoutes(userGroup)

	postHandler := handlers.NewPostHandler(engagementService, feedService)
	postGroup := e.Group("/post")
	postGroup.Use(authRequired)
	postHandler.RegisterPostRoutes(postGroup)

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationGroup := e.Group("/notification")
	notificationGroup.Use(authRequired)
	notificationHandler.RegisterNotificationRoutes(notificationGroup)

	log.Info().Msg("All routes configured")
}
