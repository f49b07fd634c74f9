package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openlot/propfinder/api/internal/auth"
	"github.com/openlot/propfinder/api/internal/cache"
	"github.com/openlot/propfinder/api/internal/config"
	"github.com/openlot/propfinder/api/internal/database"
	"github.com/openlot/propfinder/api/internal/handlers"
	"github.com/openlot/propfinder/api/internal/logger"
	"github.com/openlot/propfinder/api/internal/middleware"
	"github.com/openlot/propfinder/api/internal/repository"
	"github.com/openlot/propfinder/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Property Finder API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Apply schema migrations
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to apply migrations", err, nil)
	}

	// Connect to redis for the search cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", err, map[string]interface{}{
			"addr": cfg.Redis.Addr,
		})
	}
	defer redisCache.Close()

	log.Info("Redis connection established", map[string]interface{}{
		"addr":      cfg.Redis.Addr,
		"cache_ttl": cfg.Redis.CacheTTL.String(),
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, redisCache, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository layer
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	// Initialize service layer
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	var google auth.GoogleVerifier
	if cfg.GoogleOAuthConfigured() {
		google = auth.NewGoogleVerifier(cfg.Auth)
	} else {
		log.Warn("Google OAuth credentials not set, Google login disabled", nil)
	}

	authService := services.NewAuthService(userRepo, tokens, google, log)
	propertyService := services.NewPropertyService(propertyRepo, favoriteRepo, redisCache, cfg.Redis.CacheTTL, log)
	favoriteService := services.NewFavoriteService(favoriteRepo, propertyRepo, log)
	userService := services.NewUserService(userRepo, log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	userHandler := handlers.NewUserHandler(userService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/google", authHandler.GoogleLogin)
			authRoutes.GET("/me", middleware.RequireAuth(authService), authHandler.Me)
		}

		properties := v1.Group("/properties")
		{
			properties.GET("", middleware.OptionalAuth(authService), propertyHandler.Search)
			properties.GET("/:id", middleware.OptionalAuth(authService), propertyHandler.GetByID)
			properties.POST("", middleware.RequireAuth(authService), propertyHandler.Create)
		}

		favorites := v1.Group("/favorites", middleware.RequireAuth(authService))
		{
			favorites.GET("", favoriteHandler.List)
			favorites.POST("", favoriteHandler.Add)
			favorites.DELETE("/:id", favoriteHandler.Remove)
		}

		users := v1.Group("/users", middleware.RequireAuth(authService))
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
