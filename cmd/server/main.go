package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickup-line-api/internal/cache"
	"github.com/yukikurage/pickup-line-api/internal/config"
	"github.com/yukikurage/pickup-line-api/internal/database"
	"github.com/yukikurage/pickup-line-api/internal/handlers"
	"github.com/yukikurage/pickup-line-api/internal/logger"
	"github.com/yukikurage/pickup-line-api/internal/middleware"
	"github.com/yukikurage/pickup-line-api/internal/repository"
	"github.com/yukikurage/pickup-line-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.IsRelease(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, !cfg.IsRelease(), zl)
	if err != nil {
		return err
	}

	// Run migrations
	if err := database.Migrate(db, zl); err != nil {
		return err
	}
	if cfg.MigrateOnly {
		zl.Info("Migrations applied, exiting")
		return nil
	}

	// Optional Redis cache for generated lines
	var lineCache services.LineCache = cache.NopStore{}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		lineCache = cache.NewRedisStore(client)
		zl.Info("Redis cache enabled")
	} else {
		zl.Warn("REDIS_URL not set, generated lines will not be cached")
	}

	if cfg.OpenRouterAPIKey == "" {
		zl.Warn("OPENROUTER_API_KEY not set, generation requests will fail")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Services
	tokens := services.NewTokenService(cfg.SecretKey, cfg.AccessTTL)
	authService := services.NewAuthService(userRepo, services.SettingsDefaults{
		PreferredModel: cfg.DefaultModel,
		Temperature:    cfg.Temperature,
		MaxTokens:      cfg.MaxTokens,
	})
	llm := services.NewOpenRouterClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.LLMTimeout)
	gateway := services.NewGenerationGateway(llm, historyRepo, lineCache, services.GenerationDefaults{
		Model:       cfg.DefaultModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}, zl)
	composer := services.NewPromptComposer(services.DefaultPromptTemplates())
	pickupService := services.NewPickupService(userRepo, settingsRepo, historyRepo, composer, gateway)
	settingsService := services.NewSettingsService(settingsRepo, services.DefaultModelCatalog())
	historyService := services.NewHistoryService(historyRepo)

	if cfg.SeedDefaultUser {
		if err := seedDefaultUser(authService, cfg, zl); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: cfg.RateLimitRPS})
		go limiter.Run(ctx)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Log:         zl,
		CORSOrigins: cfg.CORSOrigins,
		Tokens:      tokens,
		RateLimiter: limiter,
		Auth:        handlers.NewAuthHandler(authService, tokens, zl),
		Pickup:      handlers.NewPickupHandler(pickupService, zl),
		Settings:    handlers.NewSettingsHandler(settingsService, zl),
		History:     handlers.NewHistoryHandler(historyService, zl),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// generation may take up to LLM_TIMEOUT
		WriteTimeout: cfg.LLMTimeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	zl.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zl.Info("Server stopped")
	return nil
}

func seedDefaultUser(authService *services.AuthService, cfg *config.Config, zl *zap.Logger) error {
	user, created, err := authService.EnsureUser(services.RegisterInput{
		Username: cfg.SeedUsername,
		Email:    cfg.SeedEmail,
		Password: cfg.SeedPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to seed default user: %w", err)
	}

	if created {
		zl.Info("Default user created", zap.String("username", user.Username))
	} else {
		zl.Info("Default user already exists", zap.String("username", user.Username))
	}
	return nil
}
