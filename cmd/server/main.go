package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revportal/internal/config"
	"revportal/internal/handler"
	"revportal/internal/logger"
	"revportal/internal/repository/postgres"
	"revportal/internal/router"
	"revportal/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(cfg.Log, cfg.Server.Environment)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB, zlog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	txManager := postgres.NewTxManager(db)
	configRepo := postgres.NewTaxConfigRepo(db)
	entityRepo := postgres.NewEntityRepo(db)
	installmentRepo := postgres.NewInstallmentRepo(db)
	reportRepo := postgres.NewReportRepo(db)

	// Initialize services
	configSvc := service.NewTaxConfigService(configRepo)
	taxSvc := service.NewTaxService(configRepo, zlog.Named("tax"))
	billingSvc := service.NewBillingService(txManager, entityRepo, installmentRepo, zlog.Named("billing"))
	penaltySvc := service.NewPenaltyService(configRepo, installmentRepo, zlog.Named("penalty"))
	entitySvc := service.NewEntityService(txManager, entityRepo, installmentRepo, taxSvc, zlog.Named("entity"))
	reportSvc := service.NewReportService(reportRepo)

	// Setup router
	r := router.Setup(zlog, cfg.CORS, router.Handlers{
		Health:      handler.NewHealthHandler(db),
		Config:      handler.NewTaxConfigHandler(configSvc),
		Tax:         handler.NewTaxHandler(taxSvc, billingSvc, penaltySvc),
		Installment: handler.NewInstallmentHandler(billingSvc),
		Entity:      handler.NewEntityHandler(entitySvc),
		Report:      handler.NewReportHandler(reportSvc),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	if cfg.Accrual.Enabled {
		worker := service.NewPenaltyWorker(penaltySvc, service.PenaltyWorkerConfig{
			Interval:   cfg.Accrual.Interval,
			RunOnStart: cfg.Accrual.RunOnStart,
		}, zlog)
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Start(ctx)
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	wg.Wait()
	zlog.Info("server stopped")
	return nil
}
