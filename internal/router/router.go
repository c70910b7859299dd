package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/config"
	"github.com/rescuenet/rescuenet-api/internal/handler"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/model"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
	"github.com/rescuenet/rescuenet-api/pkg/metrics"
	"github.com/rescuenet/rescuenet-api/pkg/validator"
)

// Handler registers public routes.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// GuardedHandler registers routes that carry their own access checks.
type GuardedHandler interface {
	RegisterRoutes(*gin.RouterGroup, handler.Guards)
}

type Handlers struct {
	Public  []Handler
	Guarded []GuardedHandler
	Metrics gin.HandlerFunc
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
}

func NewRouter(
	cfg *config.Config,
	auth *middleware.AuthMiddleware,
	handlers Handlers,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *Router {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Setup()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.Metrics(m),
		middleware.SecurityHeaders(cfg.IsProduction()),
		middleware.CORS(cfg.CORS),
	)
	if cfg.RateLimit.Enabled {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit).RateLimit())
	}
	engine.Use(middleware.SizeLimit(middleware.DefaultMaxBodySize))

	engine.NoRoute(func(c *gin.Context) {
		httputil.RespondWithError(c, apperrors.NotFound("Route", nil))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, httputil.Response{Success: false, Message: "Method not allowed"})
	})

	return &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
	}
}

func (r *Router) Setup() {
	if r.handlers.Metrics != nil {
		r.engine.GET("/metrics", r.handlers.Metrics)
	}

	api := r.engine.Group("/api")

	for _, h := range r.handlers.Public {
		h.RegisterRoutes(api)
	}

	guards := handler.Guards{
		Authenticated: r.auth.Authenticate(),
		Admin:         r.auth.RequireRole(model.RoleAdmin),
		Resident:      r.auth.RequireRole(model.RoleResident),
	}
	for _, h := range r.handlers.Guarded {
		h.RegisterRoutes(api, guards)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
