package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/config"
	"github.com/rescuenet/rescuenet-api/internal/handler/admin"
	aidhandler "github.com/rescuenet/rescuenet-api/internal/handler/aid"
	authhandler "github.com/rescuenet/rescuenet-api/internal/handler/auth"
	emergencyhandler "github.com/rescuenet/rescuenet-api/internal/handler/emergency"
	"github.com/rescuenet/rescuenet-api/internal/handler/health"
	notificationhandler "github.com/rescuenet/rescuenet-api/internal/handler/notification"
	programhandler "github.com/rescuenet/rescuenet-api/internal/handler/program"
	promhandler "github.com/rescuenet/rescuenet-api/internal/handler/prometheus"
	reporthandler "github.com/rescuenet/rescuenet-api/internal/handler/report"
	telegramhandler "github.com/rescuenet/rescuenet-api/internal/handler/telegram"
	userhandler "github.com/rescuenet/rescuenet-api/internal/handler/user"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	"github.com/rescuenet/rescuenet-api/internal/router"
	"github.com/rescuenet/rescuenet-api/internal/service/aid"
	authservice "github.com/rescuenet/rescuenet-api/internal/service/auth"
	"github.com/rescuenet/rescuenet-api/internal/service/emergency"
	"github.com/rescuenet/rescuenet-api/internal/service/notification"
	"github.com/rescuenet/rescuenet-api/internal/service/program"
	"github.com/rescuenet/rescuenet-api/internal/service/report"
	"github.com/rescuenet/rescuenet-api/internal/service/user"
	"github.com/rescuenet/rescuenet-api/pkg/auth"
	"github.com/rescuenet/rescuenet-api/pkg/metrics"
	"github.com/rescuenet/rescuenet-api/pkg/security"
	"github.com/rescuenet/rescuenet-api/pkg/telegram"
)

// Deps are the pieces the API is assembled from.
type Deps struct {
	Config *config.Config
	Store  *repository.Store
	Logger *zerolog.Logger
	// Registry receives the collectors; nil creates a private one.
	Registry *prometheus.Registry
	// Sender answers webhook updates; nil acknowledges without replying.
	Sender telegram.Sender
	// BcryptCost of 0 uses the bcrypt default.
	BcryptCost int
	// Checks are extra readiness probes next to the store.
	Checks map[string]health.Pinger
}

// API is the assembled HTTP application.
type API struct {
	Engine  *gin.Engine
	Tokens  auth.JWTService
	Metrics *metrics.Metrics
}

func NewAPI(d Deps) (*API, error) {
	cfg := d.Config
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New("rescuenet", reg)

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}
	hasher := security.NewBcryptHasher(d.BcryptCost)

	store := d.Store
	notifications := notification.NewService(store.Notifications, store.Outbox, store.Users, d.Logger)
	programs := program.NewService(store.Programs, cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval), m, d.Logger)
	reports := report.NewService(store.Reports, notifications, d.Logger)
	aidRequests := aid.NewService(store.AidRequests, notifications, d.Logger)
	emergencies := emergency.NewService(store.EmergencyReports, notifications, d.Logger)
	accounts := authservice.NewService(store.Users, tokens, hasher, d.Logger)
	users := user.NewService(store, hasher, d.Logger)

	checks := map[string]health.Pinger{"database": store.Ping}
	for name, ping := range d.Checks {
		checks[name] = ping
	}

	r := router.NewRouter(cfg, middleware.NewAuthMiddleware(tokens), router.Handlers{
		Public: []router.Handler{
			health.NewHandler(checks),
			authhandler.NewHandler(accounts),
			telegramhandler.NewHandler(d.Sender, cfg.Telegram.WebhookSecret, d.Logger),
		},
		Guarded: []router.GuardedHandler{
			programhandler.NewHandler(programs),
			reporthandler.NewHandler(reports),
			aidhandler.NewHandler(aidRequests),
			emergencyhandler.NewHandler(emergencies),
			admin.NewHandler(aidRequests, emergencies, notifications),
			userhandler.NewHandler(users),
			notificationhandler.NewHandler(notifications),
		},
		Metrics: promhandler.New(reg).Handler(),
	}, m, d.Logger)
	r.Setup()

	return &API{
		Engine:  r.Engine(),
		Tokens:  tokens,
		Metrics: m,
	}, nil
}
