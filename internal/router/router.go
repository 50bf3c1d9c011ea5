// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/fragrance-catalog/internal/config"
	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/handlers"
	"github.com/javajoker/fragrance-catalog/internal/metrics"
	"github.com/javajoker/fragrance-catalog/internal/middleware"
	"github.com/javajoker/fragrance-catalog/internal/services"
	"github.com/javajoker/fragrance-catalog/internal/utils"
)

func Initialize(store *database.Handle, cfg *config.Config) *gin.Engine {
	tokens := utils.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.Issuer)

	// Initialize services
	catalogService := services.NewCatalogService(store)
	fragranceService := services.NewFragranceService(store)
	reviewService := services.NewReviewService(store)
	priceService := services.NewPriceService(store)
	authService := services.NewAuthService(store, tokens)

	// Initialize handlers
	fragranceHandler := handlers.NewFragranceHandler(catalogService, fragranceService, cfg.Catalog.MaxPageSize)
	reviewHandler := handlers.NewReviewHandler(reviewService, priceService)
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(store)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.GeneralRateLimit(cfg.RateLimit))
	r.Use(middleware.AuditLogMiddleware(store))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	listAuth := middleware.OptionalAuth(tokens)
	if cfg.Catalog.RequireAuthForReads {
		listAuth = middleware.AuthRequired(tokens)
	}
	authRequired := middleware.AuthRequired(tokens)

	api := r.Group("/api")
	api.Use(middleware.RequireStore(store))
	{
		// Authentication routes
		auth := api.Group("")
		auth.Use(middleware.AuthRateLimit(cfg.RateLimit))
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
		}
		api.GET("/me", authRequired, authHandler.Me)

		// Catalog routes
		fragrances := api.Group("/fragrances")
		{
			fragrances.GET("", listAuth, fragranceHandler.ListFragrances)
			fragrances.GET("/:id", fragranceHandler.GetFragrance)
			fragrances.POST("", authRequired, fragranceHandler.CreateFragrance)
			fragrances.DELETE("/:id", authRequired, fragranceHandler.DeleteFragrance)
		}
		api.GET("/notes", fragranceHandler.ListNotes)

		// Review and price routes
		protected := api.Group("")
		protected.Use(authRequired)
		{
			protected.POST("/reviews", reviewHandler.CreateReview)
			protected.PUT("/reviews/:id", reviewHandler.UpdateReview)
			protected.PUT("/prices/:id", reviewHandler.UpdatePrice)
		}
	}

	return r
}
