package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rescuenet/rescuenet-api/internal/app"
	"github.com/rescuenet/rescuenet-api/internal/config"
	"github.com/rescuenet/rescuenet-api/internal/handler/health"
	promhandler "github.com/rescuenet/rescuenet-api/internal/handler/prometheus"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/service/notification"
	"github.com/rescuenet/rescuenet-api/internal/worker"
	"github.com/rescuenet/rescuenet-api/pkg/logger"
	"github.com/rescuenet/rescuenet-api/pkg/messaging/redis"
	"github.com/rescuenet/rescuenet-api/pkg/metrics"
	"github.com/rescuenet/rescuenet-api/pkg/telegram"
)

func main() {
	configPath := flag.String("config", os.Getenv("RESCUENET_CONFIG"), "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.Setup(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}).Zerolog()

	if strings.EqualFold(cfg.Database.Driver, "memory") {
		l.Fatal().Msg("the worker needs a shared database; the memory driver is per process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg.Database, l)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open store")
	}
	defer store.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, l)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("rescuenet", reg)

	processor, err := worker.NewOutboxProcessor(store.Outbox, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
		MaxRetries:    cfg.Outbox.MaxRetries,
	}, l, m)
	if err != nil {
		l.Fatal().Err(err).Msg("invalid outbox configuration")
	}
	cleanup := worker.NewOutboxCleanupWorker(store.Outbox, cfg.Outbox.Retention, cfg.Outbox.CleanupInterval, l)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		processor.Start(ctx)
		return nil
	})
	g.Go(func() error {
		cleanup.Start(ctx)
		return nil
	})

	bot, err := telegram.NewClient(telegram.Config{
		Token:   cfg.Telegram.BotToken,
		BaseURL: cfg.Telegram.BaseURL,
		Timeout: cfg.Telegram.Timeout,
	}, l)
	switch {
	case errors.Is(err, telegram.ErrNotConfigured):
		l.Warn().Msg("Telegram bot token not set; notifications are published but not relayed")
	case err != nil:
		l.Fatal().Err(err).Msg("failed to create telegram client")
	default:
		relay := telegram.NewRelay(bot, notification.NewRecipients(store.Users), m, l)
		g.Go(func() error {
			if err := relay.Run(ctx, broker); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("telegram relay: %w", err)
			}
			return nil
		})
	}

	srv := healthServer(cfg.Outbox.HealthPort, reg, map[string]health.Pinger{
		"database": store.Ping,
		"redis":    broker.Ping,
	}, l)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	l.Info().Int("health_port", cfg.Outbox.HealthPort).Msg("Worker started")
	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("Worker stopped with error")
		return
	}
	l.Info().Msg("Worker exited")
}

func healthServer(port int, reg *prometheus.Registry, checks map[string]health.Pinger, l *zerolog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Recovery(l))
	health.NewHandler(checks).RegisterRoutes(&engine.RouterGroup)
	engine.GET("/metrics", promhandler.New(reg).Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
