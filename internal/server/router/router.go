package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uniformledger/internal/server/handlers"
	"uniformledger/internal/service/auth"
)

// Handlers bundles the HTTP adapters wired into the engine.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Records   *handlers.RecordsHandler
	Dashboard *handlers.DashboardHandler
	Export    *handlers.ExportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, authSvc *auth.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/api/login", h.Auth.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api", authMiddleware(authSvc))
	{
		api.PUT("/profile", h.Auth.UpdateProfile)

		api.GET("/production", h.Records.ListProduction)
		api.POST("/production", h.Records.CreateProduction)
		api.DELETE("/production/:id", h.Records.DeleteProduction)

		api.GET("/sales", h.Records.ListSales)
		api.POST("/sales", h.Records.CreateSale)
		api.DELETE("/sales/:id", h.Records.DeleteSale)

		api.GET("/dashboard/summary", h.Dashboard.Summary)
		api.GET("/dashboard/timeseries", h.Dashboard.TimeSeries)

		api.GET("/export/production", h.Export.ProductionCSV)
		api.GET("/export/sales", h.Export.SalesCSV)
		api.POST("/backup", h.Export.Backup)
		api.POST("/restore", h.Export.Restore)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func authMiddleware(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := authSvc.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_email", claims.Subject)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
