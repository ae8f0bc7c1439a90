package handlers

import (
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/middleware"
	"github.com/yukikurage/pickup-line-api/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const modelsCacheTTL = 10 * time.Minute

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	Log         *zap.Logger
	CORSOrigins []string
	Tokens      *services.TokenService
	RateLimiter *middleware.RateLimiter

	Auth     *AuthHandler
	Pickup   *PickupHandler
	Settings *SettingsHandler
	History  *HistoryHandler
}

// NewRouter builds the gin engine with every /api route registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(corsConfig(cfg.CORSOrigins)),
		middleware.RequestID(),
		ginzap.GinzapWithConfig(cfg.Log, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.URL.Path == "/api/health"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString(constants.ContextKeyRequestID); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if userID, ok := middleware.GetUserID(c); ok {
					fields = append(fields, zap.String("user_id", userID.String()))
				}

				return fields
			},
		}),
		ginzap.RecoveryWithZap(cfg.Log, true),
	)

	requireAuth := middleware.RequireAuth(cfg.Tokens)
	modelsStore := persist.NewMemoryStore(modelsCacheTTL)

	api := router.Group("/api")
	{
		api.GET("/health", Health)

		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", cfg.Auth.Register)
			auth.POST("/login", cfg.Auth.Login)
			auth.GET("/me", requireAuth, cfg.Auth.GetCurrentUser)
		}

		// Pickup routes (protected, optionally rate limited)
		pickup := api.Group("/pickup")
		pickup.Use(requireAuth)
		if cfg.RateLimiter != nil {
			pickup.Use(cfg.RateLimiter.Middleware())
		}
		{
			pickup.POST("/generate", cfg.Pickup.Generate)
			pickup.POST("/regenerate/:id", cfg.Pickup.Regenerate)
			pickup.POST("/rate/:id", cfg.Pickup.Rate)
		}

		// Settings routes (protected)
		settings := api.Group("/settings")
		settings.Use(requireAuth)
		{
			settings.GET("", cfg.Settings.GetSettings)
			settings.PUT("", cfg.Settings.UpdateSettings)
			settings.GET("/models", cache.CacheByRequestURI(modelsStore, modelsCacheTTL), cfg.Settings.ListModels)
		}

		// History routes (protected)
		history := api.Group("/history")
		history.Use(requireAuth)
		{
			history.GET("", cfg.History.ListHistory)
			history.GET("/stats", cfg.History.GetStats)
			history.DELETE("/:id", cfg.History.DeleteEntry)
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", constants.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", constants.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	return config
}
