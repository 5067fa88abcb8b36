// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"gouno/internal/api"
	"gouno/internal/auth"
	"gouno/internal/cache"
	"gouno/internal/config"
	"gouno/internal/database"
	"gouno/internal/game"
	"gouno/internal/ws"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("loading configuration")
	}
	logger.SetLevel(cfg.ParseLogLevel())

	issuer, err := auth.NewIssuer(cfg.JWTSecret)
	if err != nil {
		logger.WithError(err).Fatal("configuring token issuer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("connecting to postgres")
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		logger.WithError(err).Fatal("applying schema")
	}

	publisher, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if err != nil {
		logger.WithError(err).Fatal("connecting to redis")
	}
	defer publisher.Close()

	hub := ws.NewHub(logger)
	manager := game.NewManager(db, game.MultiNotifier(hub, publisher), logger)

	mux := http.NewServeMux()
	handlers := &api.Handlers{DB: db, Issuer: issuer, Manager: manager, Log: logger}
	handlers.Register(mux)

	wsServer := &ws.Server{Manager: manager, Hub: hub, Issuer: issuer, Log: logger}
	mux.HandleFunc("GET /ws/game/{id}", wsServer.HandleGame)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutting down http server")
	}
}
