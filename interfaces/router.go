package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"role-catalog/application"
	"role-catalog/domain"
)

type RouterConfig struct {
	BasePath       string
	AllowedOrigins []string
	Store          domain.RoleStore
	Metrics        *Metrics
}

// NewRouter builds the gin engine with middleware, health, metrics and the
// job role API mounted under BasePath.
func NewRouter(cfg RouterConfig) *gin.Engine {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	router := gin.New()
	router.Use(
		RequestID(),
		RequestLogger(),
		gin.Recovery(),
		metrics.Middleware(),
		CORS(cfg.AllowedOrigins),
	)

	router.GET("/healthz", func(c *gin.Context) {
		if err := cfg.Store.Ping(c.Request.Context()); err != nil {
			requestLogger(c).Warnf("health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	NewHTTPHandler(router.Group(cfg.BasePath), cfg.Store, application.NewQueryService(cfg.Store))
	return router
}
