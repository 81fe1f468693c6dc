package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freeresumetools/internal/checkout"
	"freeresumetools/internal/services/health"
	"freeresumetools/internal/shared/config"
	"freeresumetools/internal/shared/metrics"
	"freeresumetools/internal/shared/server/middleware"
	"freeresumetools/internal/shared/server/respond"
	localstore "freeresumetools/internal/shared/storage/object/local"
	"freeresumetools/internal/tools"
)

const (
	rateGroupSubmit   = "SUBMIT"
	rateGroupCheckout = "CHECKOUT"
	rateGroupDefault  = "DEFAULT"
)

// RouterDeps holds handlers and services for routing.
type RouterDeps struct {
	Config          config.Config
	ToolsHandler    *tools.Handler
	CheckoutHandler *checkout.Handler
	Health          *health.Service
	// LocalFilesDir is served under /files when the local object store is in use.
	LocalFilesDir string
	RateLimiter   *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.ClientID(),
		middleware.Logging(),
		middleware.Recovery(),
	)

	limit := middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor:     rateGroupFor,
		Limiter:      deps.RateLimiter,
		Rules: map[string]middleware.RateLimitRule{
			rateGroupSubmit:   {Rate: 0.2, Burst: 3},
			rateGroupCheckout: {Rate: 0.5, Burst: 5},
			rateGroupDefault:  {Rate: 5, Burst: 20},
		},
	})

	// The checkout endpoint answers OPTIONS itself with its own CORS headers.
	if deps.CheckoutHandler != nil {
		deps.CheckoutHandler.RegisterRoutes(r.Group("/", checkout.CORS(), limit))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.CORS(deps.Config.CORSAllowOrigin), limit)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	if deps.ToolsHandler != nil {
		deps.ToolsHandler.RegisterRoutes(api)
	}

	r.GET("/metrics", metrics.Handler())
	if deps.LocalFilesDir != "" {
		r.Static(localstore.RoutePrefix, deps.LocalFilesDir)
	}

	return r
}

func rateGroupFor(c *gin.Context) string {
	switch {
	case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/tools/:tool/submissions":
		return rateGroupSubmit
	case c.FullPath() == checkout.Route && c.Request.Method == http.MethodPost:
		return rateGroupCheckout
	default:
		return rateGroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
