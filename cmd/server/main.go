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

	"phoneshop/internal/config"
	"phoneshop/internal/infra"
	"phoneshop/internal/repository"
	"phoneshop/internal/router"
	"phoneshop/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title        Phone Shop API
// @version      1.0
// @description  Inventory, sales and after-sales backend for a phone retail shop.
// @BasePath     /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	receipts := infra.NewReceiptGenerator(cfg.ShopName, cfg.PDFStoragePath)
	mailer := infra.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.ShopName)
	dispatcher := worker.NewDispatcher(rdb)

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	pool := worker.NewPool(rdb, cfg.WorkerPoolSize)
	pool.Register(worker.JobReceipt, worker.NewReceiptWorker(repository.NewSaleRepository(db), receipts, mailer))
	pool.Start(workerCtx)

	engine := router.New(router.Deps{
		Cfg:        cfg,
		DB:         db,
		Redis:      rdb,
		Dispatcher: dispatcher,
		Receipts:   receipts,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rdb.Close()
	log.Info().Msg("bye")
}
