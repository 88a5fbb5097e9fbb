package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/newsroom-cms/api/internal/service"
	"github.com/rs/zerolog"
)

const serviceName = "newsroom-cms"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	categoryHandler := NewCategoryHandler(services, log)
	taskHandler := NewTaskHandler(services, log)
	authHandler := NewAuthHandler(services, log)
	userHandler := NewUserHandler(services, log)

	authn := authenticate(services.Tokens)
	manageUsers := requirePermission(policy.ManageUsers)
	loginLimiter := newIPRateLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst)

	// Health check
	router.GET("/health", healthCheck(services))
	router.GET("/metrics", metricsHandler(services, log))

	api := router.Group("/api")
	{
		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.ListPublished)
			articles.GET("/me", authn, articleHandler.ListMine)
			articles.GET("/me/:id", authn, articleHandler.GetMine)
			articles.GET("/:id", articleHandler.GetPublished)
			articles.POST("", authn, articleHandler.Create)
			articles.PUT("/:id", authn, articleHandler.Update)
			articles.DELETE("/:id", authn, articleHandler.Delete)
			articles.PATCH("/:id/review", authn, articleHandler.Review)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
			categories.POST("", authn, categoryHandler.Create)
			categories.PUT("/:id", authn, categoryHandler.Update)
			categories.DELETE("/:id", authn, categoryHandler.Delete)
		}

		tasks := api.Group("/tasks", authn)
		{
			tasks.GET("", taskHandler.List)
			tasks.GET("/:id", taskHandler.Get)
			tasks.POST("", taskHandler.Create)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.PATCH("/:id/toggle-status", taskHandler.ToggleStatus)
			tasks.DELETE("/:id", taskHandler.Delete)
		}

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", rateLimitMiddleware(loginLimiter, log), authHandler.Login)
			authGroup.POST("/register", authn, manageUsers, authHandler.Register)
			authGroup.GET("/me", authn, authHandler.Me)
		}

		users := api.Group("/users", authn, manageUsers)
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}
	}

	return router
}

// healthCheck returns the health status, including a database ping
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if err := services.Stats.Health(c.Request.Context()); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}

// metricsHandler returns row counts and connection pool usage
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := services.Stats.Metrics(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"database":  metrics,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
