package router

import (
	"log"

	"github.com/anonto42/linkup/backend/internal/handlers"
	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// Dependencies are the collaborators the routes are built from
type Dependencies struct {
	Store    *repositories.Store
	Verifier middleware.TokenVerifier
	Limiter  *middleware.LimiterStore
	Backend  string
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(deps.Backend))

	// --- Initialize Services ---
	feedService := services.NewFeedService(deps.Store.Posts)
	postService := services.NewEventPostService(deps.Store)
	linkUpService := services.NewLinkUpService(deps.Store)
	ratingService := services.NewRatingService(deps.Store)
	recommendationService := services.NewRecommendationService(deps.Store)
	profileService := services.NewProfileService(deps.Store.Profiles)

	// Anonymous callers are allowed on public routes; private routes require a token.
	public := e.Group("/api/v1", middleware.OptionalAuth(deps.Verifier))
	private := e.Group("/api/v1", middleware.RequireAuth(deps.Verifier))
	limit := middleware.RateLimit(deps.Limiter)
	log.Println("Authentication middleware applied to /api/v1 groups.")

	// Event post routes
	postHandler := handlers.NewPostHandler(postService)
	postHandler.RegisterPostRoutes(public, private, limit)
	log.Println("Post routes configured.")

	// Feed and recommendation routes
	feedHandler := handlers.NewFeedHandler(feedService, recommendationService)
	feedHandler.RegisterFeedRoutes(public)
	log.Println("Feed routes configured.")

	// Link-up routes
	linkUpHandler := handlers.NewLinkUpHandler(linkUpService)
	linkUpHandler.RegisterLinkUpRoutes(private, limit)
	log.Println("Link-up routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(linkUpService)
	notificationHandler.RegisterNotificationRoutes(private)
	log.Println("Notification routes configured.")

	// Rating routes
	ratingHandler := handlers.NewRatingHandler(ratingService)
	ratingHandler.RegisterRatingRoutes(public, private, limit)
	log.Println("Rating routes configured.")

	// User profile routes
	profileHandler := handlers.NewProfileHandler(profileService)
	profileHandler.RegisterProfileRoutes(public, private)
	log.Println("User profile routes configured.")

	log.Println("All routes configured.")
}
