package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/kapilnath546/study-buddies/internal/handlers"
	"github.com/kapilnath546/study-buddies/internal/middleware"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Info().Msg("Global middleware configured")
}

// Deps are the shared infrastructure handles the routes are built on
type Deps struct {
	Postgres     *gorm.DB
	Mongo        *mongo.Database
	FirebaseAuth *auth.Client
	Uploader     *services.Uploader
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	// AutoMigrate PostgreSQL models
	err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
		&models.Match{},
		&models.LoginStreak{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate models")
	}
	log.Info().Msg("PostgreSQL auto-migrations completed for all models")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	postRepo := repositories.NewMongoPostRepository(deps.Mongo)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)
	pollRepo := repositories.NewMongoPollRepository(deps.Mongo)
	matchRepo := repositories.NewPostgresMatchRepository(deps.Postgres)
	messageRepo := repositories.NewMongoMessageRepository(deps.Mongo)
	streakRepo := repositories.NewPostgresStreakRepository(deps.Postgres)

	// --- Initialize services ---
	sessions := services.NewSessionRegistry()
	hub := services.NewHub()
	feedService := services.NewFeedService(postRepo, userRepo, likeRepo)
	mutator := services.NewMutator(postRepo, pollRepo, likeRepo)
	matchmaker := services.NewMatchmaker(userRepo, matchRepo)
	streakService := services.NewStreakService(streakRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.FirebaseAuth, sessions, streakService)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Info().Msg("Auth routes configured")

	// Realtime subscriptions authenticate via query token
	realtimeHandler := handlers.NewRealtimeHandler(hub)
	realtimeHandler.RegisterRealtimeRoutes(e)
	log.Info().Msg("Realtime routes configured")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	authHandler.RegisterSessionRoutes(api)

	userHandler := handlers.NewUserHandler(userRepo, feedService)
	userHandler.RegisterProfileRoutes(api)
	log.Info().Msg("User profile routes configured")

	postHandler := handlers.NewPostHandler(postRepo, hub)
	postHandler.RegisterPostRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)
	log.Info().Msg("Post and feed routes configured")

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, hub)
	commentHandler.RegisterCommentRoutes(api)

	likeHandler := handlers.NewLikeHandler(mutator, postRepo, sessions, hub)
	likeHandler.RegisterLikeRoutes(api)

	pollHandler := handlers.NewPollHandler(pollRepo, mutator, sessions, hub)
	pollHandler.RegisterPollRoutes(api)
	log.Info().Msg("Comment, like and poll routes configured")

	matchHandler := handlers.NewMatchHandler(matchmaker, matchRepo, userRepo, sessions, hub)
	matchHandler.RegisterMatchRoutes(api)

	chatHandler := handlers.NewChatHandler(messageRepo, matchRepo, hub)
	chatHandler.RegisterChatRoutes(api)
	log.Info().Msg("Match and chat routes configured")

	uploadHandler := handlers.NewUploadHandler(deps.Uploader)
	uploadHandler.RegisterUploadRoutes(api)
	log.Info().Msg("Upload routes configured")

	log.Info().Msg("All routes configured")
}
