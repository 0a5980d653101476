package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kyeongry/fastmatch-admin-sub002/config"
	"github.com/kyeongry/fastmatch-admin-sub002/handler"
	"github.com/kyeongry/fastmatch-admin-sub002/middleware"
	"github.com/kyeongry/fastmatch-admin-sub002/pkg/logger"
	"github.com/kyeongry/fastmatch-admin-sub002/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	ctx := context.Background()

	// Contract repository: in-memory by default, postgres when configured
	var repo service.ContractRepository
	switch cfg.Store.Driver {
	case "postgres":
		pgStore, err := service.NewPGStore(ctx, &cfg.Postgres)
		if err != nil {
			slog.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pgStore.Close()
		repo = pgStore
		slog.Info("using postgres contract store")
	default:
		repo = service.NewContractStore(&cfg.Store)
		slog.Info("using in-memory contract store")
	}

	// Object storage is optional; without it completion skips the PDF and
	// uploaded documents are not archived
	var storage *service.DocumentStorage
	if cfg.Minio.Endpoint != "" {
		storage, err = service.NewDocumentStorage(&cfg.Minio)
		if err != nil {
			slog.Error("failed to initialize object storage", "error", err)
			os.Exit(1)
		}
		if err := storage.EnsureBucket(ctx); err != nil {
			slog.Error("failed to ensure storage bucket", "error", err)
			os.Exit(1)
		}
	}

	var renderer *service.RendererService
	if cfg.Renderer.URL != "" {
		renderer = service.NewRendererService(&cfg.Renderer)
	}

	gemini := service.NewGeminiService(&cfg.Gemini)

	library := service.NewTermsLibrary()
	library.SeedDefaults()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	leaseHandler := handler.NewLeaseHandler(repo, renderer, storage)
	extractHandler := handler.NewExtractHandler(gemini, storage)
	termsHandler := handler.NewTermsHandler(library, gemini)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(100, time.Minute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.POST("/contracts", leaseHandler.Create)
		protected.GET("/contracts", leaseHandler.List)
		protected.GET("/contracts/:id", leaseHandler.Get)
		protected.PUT("/contracts/:id", leaseHandler.Update)
		protected.DELETE("/contracts/:id", leaseHandler.Delete)
		protected.POST("/contracts/:id/complete", leaseHandler.Complete)

		protected.POST("/extract/registry", extractHandler.Registry)
		protected.POST("/extract/party", extractHandler.Party)

		protected.GET("/terms", termsHandler.Search)
		protected.GET("/terms/defaults", termsHandler.Defaults)
		protected.POST("/terms", termsHandler.Save)
		protected.POST("/terms/generate", termsHandler.Generate)
		protected.POST("/terms/:id/use", termsHandler.Use)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
