package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/router"
	"github.com/anonto42/linkup/backend/pkg/config"
	"github.com/anonto42/linkup/backend/pkg/dynamo"
	"github.com/anonto42/linkup/backend/pkg/firebase"
	"github.com/anonto42/linkup/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Firebase is needed by the firestore store and by firebase auth
	var firebaseApp *firebase.App
	if cfg.StoreBackend == config.BackendFirestore || cfg.AuthMode == config.AuthFirebase {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseApp = app
	}

	// Initialize the store
	store, closeStore, err := openStore(ctx, cfg, firebaseApp)
	if err != nil {
		log.Fatalf("Failed to initialize %s store: %v", cfg.StoreBackend, err)
	}
	defer closeStore()

	if cfg.RatingsBackend == config.BackendDynamoDB {
		client, err := dynamo.NewClient(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			log.Fatalf("Failed to initialize DynamoDB: %v", err)
		}
		store.Ratings = repositories.NewDynamoRatingRepository(client, cfg.DynamoRatingsTable, cfg.DynamoRatingStatsTable)
		log.Println("Ratings are stored in DynamoDB.")
	}

	// Token verification
	var verifier middleware.TokenVerifier
	switch cfg.AuthMode {
	case config.AuthFirebase:
		verifier = middleware.NewFirebaseVerifier(firebaseApp.AuthClient)
	case config.AuthJWT:
		verifier = middleware.NewJWTVerifier(cfg.JWTSecret)
	default:
		log.Fatalf("Unknown AUTH_MODE %q", cfg.AuthMode)
	}

	limiter := middleware.NewLimiterStore(cfg.RateLimitPerMinute, cfg.RateLimitPerMinute, 5*time.Minute)
	defer limiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Dependencies{
		Store:    store,
		Verifier: verifier,
		Limiter:  limiter,
		Backend:  cfg.StoreBackend,
	})

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v\n", err)
	}
}

// openStore builds the repositories for the configured backend. The returned
// func releases its connections.
func openStore(ctx context.Context, cfg *config.Config, firebaseApp *firebase.App) (*repositories.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Println("Using the in-memory store; data is lost on restart.")
		return repositories.NewMemoryStore().Store(), func() {}, nil

	case config.BackendMongo:
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := config.Migrate(db.Postgres); err != nil {
			db.CloseDB()
			return nil, nil, err
		}
		posts := repositories.NewMongoEventPostRepository(db.Mongo.Database(cfg.MongoDatabase))
		if err := posts.EnsureIndexes(ctx); err != nil {
			db.CloseDB()
			return nil, nil, err
		}
		store := repositories.NewDatabaseStore(db.Postgres, db.Mongo.Database(cfg.MongoDatabase))
		return store, db.CloseDB, nil

	case config.BackendFirestore:
		client, err := firebaseApp.Firestore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewFirestoreStore(client), func() {
			if err := client.Close(); err != nil {
				log.Printf("Error closing Firestore client: %v\n", err)
			}
		}, nil
	}
	return nil, nil, errors.New("unknown STORE_BACKEND " + cfg.StoreBackend)
}
