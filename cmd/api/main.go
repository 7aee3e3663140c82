package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ArowuTest/lotto-backend/api/routes"
	"github.com/ArowuTest/lotto-backend/internal/config"
	"github.com/ArowuTest/lotto-backend/internal/database"
	"github.com/ArowuTest/lotto-backend/internal/handlers"
	"github.com/ArowuTest/lotto-backend/internal/jobs"
	"github.com/ArowuTest/lotto-backend/internal/services"
	"github.com/ArowuTest/lotto-backend/pkg/credentials"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	configureLogging(cfg.Log)
	gin.SetMode(cfg.Server.Mode)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.Timeout)
	store, err := database.Open(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.WithError(err).Error("Error closing store")
		}
	}()

	opts := services.Options{
		DebitOnPurchase: cfg.Settlement.DebitOnPurchase,
		SuffixLength:    cfg.Settlement.SuffixLength,
	}
	accountService := services.NewAccountService(store, credentials.NewBcryptVerifier(bcrypt.DefaultCost))
	drawService := services.NewDrawService(store, opts)
	orderService := services.NewOrderService(store, opts)
	settlementService := services.NewSettlementService(store)

	handlerDeps := routes.HandlerDependencies{
		HealthHandler:     handlers.NewHealthHandler(cfg.Store.Driver, store.Ping),
		AccountHandler:    handlers.NewAccountHandler(accountService, settlementService),
		DrawHandler:       handlers.NewDrawHandler(drawService, settlementService),
		OrderHandler:      handlers.NewOrderHandler(orderService, settlementService),
		SettlementHandler: handlers.NewSettlementHandler(settlementService),
	}
	router, stopRouter := routes.SetupRouter(cfg, handlerDeps)
	defer stopRouter()

	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	scheduler := jobs.NewScheduler(cfg.Settlement.ReconcileSchedule, drawService, settlementService)
	if err := scheduler.Start(jobCtx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.WithField("port", cfg.Server.Port).Info("Server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	stopJobs()
	scheduler.Stop()

	log.Info("Server exiting")
}

func configureLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
