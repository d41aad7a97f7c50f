package router

import (
	"log"

	"github.com/kynetiq/social-engine/internal/handlers"
	"github.com/kynetiq/social-engine/internal/middleware"
	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/repositories"
	"github.com/kynetiq/social-engine/internal/services"
	"github.com/kynetiq/social-engine/pkg/cache"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, redisClient *redis.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Like{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("socialengine"))
	counters := cache.NewCounterCache(redisClient)

	// --- Initialize Services ---
	followService := services.NewFollowService(followRepo, userRepo, counters)
	likeService := services.NewLikeService(likeRepo, userRepo, postRepo, counters)
	feedService := services.NewFeedService(postRepo, userRepo, followRepo, likeRepo)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	admin := e.Group("/api/v1", middleware.JWTAuthMiddleware(), middleware.AdminOnly())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, feedService, likeService)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followService)
	followHandler.RegisterFollowRoutes(api, admin)
	log.Println("Follow routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeService)
	likeHandler.RegisterLikeRoutes(api, admin)
	log.Println("Like routes configured.")

	log.Println("All routes configured.")
}
