package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/client-connect/internal/bootstrap"
	"github.com/jwalitptl/client-connect/internal/config"
	"github.com/jwalitptl/client-connect/pkg/logger"
	"github.com/jwalitptl/client-connect/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{Level: logger.ParseLevel(cfg.Log.Level)})
	log.Logger = appLogger.ZL
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.Log.Level))
	if appLogger.ZL.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg, "mailer")

	// Initialize storage
	storage, err := bootstrap.OpenStorage(cfg, true)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer storage.Close()

	// Redis is optional; without it status events are not published.
	broker, err := bootstrap.NewBroker(cfg.Redis, &appLogger.ZL, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	if broker != nil {
		defer broker.Close()
	}

	services := bootstrap.NewServices(cfg, storage, bootstrap.Deps{
		Transport: bootstrap.NewTransport(cfg.Mail),
		Broker:    broker,
		Logger:    appLogger,
		Metrics:   m,
	})
	r := bootstrap.NewRouter(cfg, storage, services, reg, m, appLogger.ZL)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("storage", cfg.Storage.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
