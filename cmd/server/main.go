package main

import (
	"context"

	"github.com/kapilnath546/study-buddies/internal/router"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/kapilnath546/study-buddies/pkg/config"
	"github.com/kapilnath546/study-buddies/pkg/firebase"
	"github.com/kapilnath546/study-buddies/validators"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.SetupLogger(cfg.LogLevel)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Deps{
		Postgres:     db.Postgres,
		Mongo:        db.Mongo.Database(cfg.MongoDatabase),
		FirebaseAuth: firebaseApp.AuthClient,
		Uploader:     services.NewUploader(firebaseApp.Bucket, firebaseApp.BucketName),
	})

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
