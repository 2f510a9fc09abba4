package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/hedgex/hedgex/backend/internal/api/handlers"
	"github.com/hedgex/hedgex/backend/internal/auth"
	"github.com/hedgex/hedgex/backend/internal/config"
)

// Auth endpoints run bcrypt per request; keep them behind a shared bucket.
const (
	authRatePerSecond = 5
	authRateBurst     = 10
)

func SetupRouter(cfg *config.Config, tokens *auth.Manager) *gin.Engine {
	router := gin.Default()

	router.Use(RequestID())
	router.Use(Metrics())

	// CORS configuration - allow origins from environment or use defaults
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = false // Explicitly set
	router.Use(cors.New(corsConfig))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(tokens)
	portfolioHandler := handlers.NewPortfolioHandler()
	stockHandler := handlers.NewStockHandler()
	watchlistHandler := handlers.NewWatchlistHandler()

	authLimiter := rate.NewLimiter(rate.Limit(authRatePerSecond), authRateBurst)

	// API routes
	api := router.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", AuthRateLimit(authLimiter), authHandler.Register)
			authRoutes.POST("/login", AuthRateLimit(authLimiter), authHandler.Login)
			authRoutes.GET("/verify", RequireAuth(tokens), authHandler.Verify)
		}

		// Portfolio routes (protected)
		portfolio := api.Group("/portfolio")
		portfolio.Use(RequireAuth(tokens))
		{
			portfolio.GET("", portfolioHandler.GetPortfolio)
			portfolio.GET("/latest", portfolioHandler.GetLatestPortfolio)
			portfolio.GET("/allocation", portfolioHandler.GetAllocation)
		}

		// Watchlist routes (protected)
		watchlists := api.Group("/watchlists")
		watchlists.Use(RequireAuth(tokens))
		{
			watchlists.GET("", watchlistHandler.GetWatchlists)
			watchlists.POST("", watchlistHandler.CreateWatchlist)
			watchlists.POST("/:id/stocks", watchlistHandler.AddStock)
			watchlists.GET("/:id/stocks", watchlistHandler.GetStocks)
		}

		// Stock routes (public)
		stocks := api.Group("/stocks")
		{
			stocks.GET("", stockHandler.GetStocks)
			stocks.GET("/latest", stockHandler.GetLatestStocks)
			stocks.GET("/:symbol/historical", stockHandler.GetHistoricalData)
			stocks.POST("/init", stockHandler.InitStocks)
		}

		// Bulk portfolio replace is public like the original data loader
		api.POST("/portfolio/init", portfolioHandler.InitPortfolio)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to HedgeX API"})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
