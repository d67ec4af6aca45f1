package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/auth"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/config"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/contests"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/db"
	httpapi "github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/http"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/logging"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/payments"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger().WithError(err).Fatal("failed to load configuration")
	}

	logger, err := logging.Setup(cfg)
	if err != nil {
		logging.Logger().WithError(err).Fatal("failed to configure logging")
	}

	ctx := context.Background()

	client, err := db.OpenMongo(ctx, cfg.MongoURI)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()

	repo := contests.NewRepository(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.WithError(err).Warn("EnsureIndexes failed")
	}

	provider, err := payments.NewProvider(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to configure payment provider")
	}
	logger.WithField("provider", provider.Name()).Info("payment provider ready")

	tokens := auth.NewService(cfg.TokenSecret, !cfg.IsDevelopment())
	router := httpapi.NewRouter(repo, tokens, provider, cfg, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("port", cfg.Port).Info("Contest Hub is running")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("server error")
	}
	logger.Info("server closed")
}
