package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/config"
	"github.com/Karthikx21/Alagarcater-sub000/internal/infra"
	"github.com/Karthikx21/Alagarcater-sub000/internal/router"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"
	"github.com/Karthikx21/Alagarcater-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title           Alagar Caterers Orders API
// @version         1.0
// @description     Catering orders, payment ledger and reconciliation.
// @BasePath        /v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Composition root: jobs flow Service → Dispatcher → Redis → Pool → Worker.
	dispatcher := worker.NewDispatcher(rdb)
	repos := router.NewRepositories(db)
	svcs := router.NewServices(repos, dispatcher, service.DeletePolicy(cfg.OrderDeletePolicy), nil)

	mailer := infra.NewMailer(cfg)
	mailCB := infra.NewCircuitBreaker("smtp", infra.DefaultCBConfig())
	if !mailer.Configured() {
		log.Warn().Msg("SMTP_HOST not set, payment receipts will not be emailed")
	}

	pool := worker.StartWorkerPool(ctx, rdb, &worker.WorkerHandlers{
		Reconcile: worker.NewReconcileWorker(svcs.Financials),
		Email:     worker.NewEmailWorker(mailer, mailCB),
	}, cfg.WorkerPoolSize, cfg.JobMaxAttempts)

	worker.NewOverdueSweep(repos.Orders, svcs.Financials, cfg.OverdueSweepBatch, nil).
		Start(ctx, cfg.OverdueSweepInterval)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, db, rdb, svcs, mailCB),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("business", cfg.BusinessName).Msgf("listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	pool.Wait()
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev gets the pretty console writer, production plain JSON.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
