package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/api/handlers"
	"github.com/jafarshop/productconsole/internal/api/middleware"
	"github.com/jafarshop/productconsole/internal/config"
	"github.com/jafarshop/productconsole/internal/repository"
	"github.com/jafarshop/productconsole/internal/session"
	"github.com/jafarshop/productconsole/internal/workflow"
)

const idempotencyTTL = 10 * time.Minute

// Dependencies are the collaborators the HTTP layer serves from
type Dependencies struct {
	Sessions *session.Registry
	Accounts workflow.AccountLister
	Repos    *repository.Repositories
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Dependencies, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Product Edit Console API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/accounts",
				"POST /v1/sessions",
				"GET /v1/sessions/:id",
				"POST /v1/sessions/:id/validate",
				"POST /v1/sessions/:id/commit",
				"GET /v1/records",
				"GET /v1/search-state/:key",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "sessions": deps.Sessions.Len()})
	})

	idempotency := middleware.NewIdempotencyCache(idempotencyTTL)

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/accounts", handlers.HandleListAccounts(deps.Accounts, logger))
		v1.POST("/sessions", handlers.HandleCreateSession(deps.Sessions, logger))

		sessionRoutes := v1.Group("/sessions/:id")
		sessionRoutes.Use(middleware.SessionMiddleware(deps.Sessions, logger))
		{
			sessionRoutes.GET("", handlers.HandleGetSession())
			sessionRoutes.DELETE("", handlers.HandleDeleteSession(deps.Sessions))
			sessionRoutes.POST("/load", handlers.HandleLoadProduct(logger))
			sessionRoutes.PUT("/account", handlers.HandleSetAccount())
			sessionRoutes.PATCH("/summary", handlers.HandleSetSummaryField(logger))
			sessionRoutes.PUT("/metafields/:index", handlers.HandleSetMetafield(logger))
			sessionRoutes.POST("/reset", handlers.HandleResetEdits(logger))
			sessionRoutes.POST("/validate", handlers.HandleValidate(logger))
			sessionRoutes.POST("/commit", middleware.IdempotencyMiddleware(idempotency, logger), handlers.HandleCommit(logger))
			sessionRoutes.GET("/payload", handlers.HandleGetPayload(logger))
		}

		v1.GET("/records", handlers.HandleListRecords(deps.Repos, logger))
		v1.GET("/search-state/:key", handlers.HandleGetSearchState(deps.Repos, logger))
		v1.PUT("/search-state/:key", handlers.HandleSaveSearchState(deps.Repos, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
