package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/rescuenet/rescuenet-api/internal/app"
	"github.com/rescuenet/rescuenet-api/internal/config"
	"github.com/rescuenet/rescuenet-api/pkg/logger"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg.Database, l)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var sender telegram.Sender
	bot, err := telegram.NewClient(telegram.Config{
		Token:   cfg.Telegram.BotToken,
		BaseURL: cfg.Telegram.BaseURL,
		Timeout: cfg.Telegram.Timeout,
	}, l)
	switch {
	case errors.Is(err, telegram.ErrNotConfigured):
		l.Warn().Msg("Telegram bot token not set; webhook updates are acknowledged without replies")
	case err != nil:
		l.Fatal().Err(err).Msg("failed to create telegram client")
	default:
		sender = bot
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api, err := app.NewAPI(app.Deps{
		Config:   cfg,
		Store:    store,
		Logger:   l,
		Registry: reg,
		Sender:   sender,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to build api")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		l.Info().Str("addr", srv.Addr).Str("environment", cfg.Environment).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	l.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
	}
	l.Info().Msg("Server exited")
}
