package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/reviewly/backend/config"
	"github.com/reviewly/backend/internal/auth"
	"github.com/reviewly/backend/internal/cache"
	"github.com/reviewly/backend/internal/database"
	"github.com/reviewly/backend/internal/handlers"
	"github.com/reviewly/backend/internal/middleware"
	"github.com/reviewly/backend/internal/moderation"
	"github.com/reviewly/backend/internal/notify"
	"github.com/reviewly/backend/internal/repository"
	"github.com/reviewly/backend/internal/sentiment"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Connect to Redis
	redis, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Running without Redis - notification events and analytics caching disabled")
		redis = nil
	} else {
		defer redis.Close()
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	wordRepo := repository.NewBannedWordRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Content analysis: external scorer when configured, embedded lexicon otherwise
	var classifier sentiment.Classifier
	if cfg.Sentiment.URL != "" {
		log.Printf("Using external sentiment scorer at %s", cfg.Sentiment.URL)
		classifier = sentiment.NewHTTPClassifier(cfg.Sentiment.URL, cfg.Sentiment.Timeout)
	} else {
		log.Println("No sentiment scorer configured - using embedded lexicon")
		classifier = sentiment.NewLexiconClassifier()
	}
	pipeline := moderation.NewPipeline(classifier, wordRepo)

	// Notifications and the moderation gate
	var publisher notify.Publisher
	if redis != nil {
		publisher = redis
	}
	dispatcher := notify.NewDispatcher(notificationRepo, publisher)
	gate := moderation.NewGate(reviewRepo, productRepo, dispatcher)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, reviewRepo, commentRepo, jwtService)
	productHandler := handlers.NewProductHandler(productRepo, reviewRepo)
	reviewHandler := handlers.NewReviewHandler(reviewRepo, productRepo, interactionRepo, commentRepo, pipeline, dispatcher, redis)
	moderationHandler := handlers.NewModerationHandler(gate, reviewRepo, wordRepo, redis)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo, productRepo, redis, cfg.API.AnalyticsCacheTTL)
	notificationHandler := handlers.NewNotificationHandler(dispatcher, notificationRepo)

	// Rate limiter for write endpoints, redis-backed when available
	writeLimiter := middleware.NewWriteLimiter(cfg.API, redis)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Public read surface; identity is resolved when a token is present
	// so review details can carry the viewer's own state
	public := router.Group("/")
	public.Use(middleware.OptionalAuthMiddleware(jwtService))
	{
		public.GET("/products", productHandler.List)
		public.GET("/products/:id", productHandler.Get)
		public.GET("/products/:id/reviews", productHandler.Reviews)
		public.GET("/products/:id/analytics", analyticsHandler.ProductAnalytics)
		public.GET("/reviews", reviewHandler.List)
		public.GET("/reviews/:id", reviewHandler.Get)
		public.GET("/reviews/:id/comments", reviewHandler.ListComments)
		public.GET("/reviews/search", analyticsHandler.SearchReviews)
		public.GET("/reviews/top-liked", analyticsHandler.TopLikedReview)
		public.GET("/analytics/top-reviewers", analyticsHandler.TopReviewers)
		public.GET("/analytics/top-products", analyticsHandler.TopProducts)
	}

	// Protected routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	{
		api.GET("/me", authHandler.GetMe)
		api.GET("/profile", authHandler.GetProfile)

		// Write endpoints are rate limited per user
		writes := api.Group("/")
		writes.Use(writeLimiter.Limit("write"))
		{
			writes.POST("/reviews", reviewHandler.Create)
			writes.PUT("/reviews/:id", reviewHandler.Update)
			writes.DELETE("/reviews/:id", reviewHandler.Delete)
			writes.POST("/reviews/:id/interact", reviewHandler.Interact)
			writes.POST("/reviews/:id/vote", reviewHandler.Vote)
			writes.POST("/reviews/:id/report", reviewHandler.Report)
			writes.POST("/reviews/:id/comments", reviewHandler.CreateComment)
		}

		// Notifications
		api.GET("/notifications", notificationHandler.List)
		api.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		api.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		api.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
		api.DELETE("/notifications", notificationHandler.Clear)

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AdminRequired())
		{
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.GET("/products/stats", productHandler.Stats)

			admin.PATCH("/reviews/:id/approve", moderationHandler.Approve)
			admin.POST("/reviews/:id/disapprove", moderationHandler.Disapprove)
			admin.GET("/reviews/pending", moderationHandler.Pending)
			admin.GET("/reviews/flagged", moderationHandler.Flagged)

			admin.GET("/banned-words", moderationHandler.ListBannedWords)
			admin.POST("/banned-words", moderationHandler.AddBannedWord)
			admin.DELETE("/banned-words/:id", moderationHandler.RemoveBannedWord)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
