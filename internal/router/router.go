package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/client-connect/internal/middleware"
	"github.com/jwalitptl/client-connect/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers groups the route sets mounted under /api/v1.
type Handlers struct {
	Health    Handler
	Auth      Handler
	Protected []Handler
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        middleware.RateLimiterConfig
	CacheEnabled     bool
	Cache            middleware.CacheConfig
	AllowedOrigins   []string
	MaxBodySize      int64
	// Metrics may be nil.
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	config   RouterConfig
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config RouterConfig) *Router {
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		config:   config,
	}

	if config.MaxBodySize <= 0 {
		config.MaxBodySize = middleware.DefaultMaxBodySize
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(config.Logger),
		middleware.Recovery(),
		middleware.SecurityHeaders(),
		middleware.CORS(config.AllowedOrigins),
		middleware.SizeLimit(config.MaxBodySize),
	)
	if config.Metrics != nil {
		engine.Use(middleware.Metrics(config.Metrics))
	}
	if config.RateLimitEnabled {
		engine.Use(middleware.NewRateLimiter(config.RateLimit).RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(api)
	}
	if r.handlers.Auth != nil {
		r.handlers.Auth.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	if r.config.CacheEnabled {
		ttl := r.config.Cache.TTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		protected.Use(middleware.NewResponseCache(middleware.CacheConfig{
			TTL:             ttl,
			CleanupInterval: r.config.Cache.CleanupInterval,
		}).Cache())
	}
	for _, h := range r.handlers.Protected {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
