package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	handler "github.com/jpp0ca/DV360Trackers-API/internal/adapters/http"
	"github.com/jpp0ca/DV360Trackers-API/internal/bootstrap"
	"github.com/jpp0ca/DV360Trackers-API/internal/config"
	"github.com/jpp0ca/DV360Trackers-API/internal/logging"

	_ "github.com/jpp0ca/DV360Trackers-API/docs"
)

// @title			DV360 Trackers API
// @version		1.0
// @description	Reconciles third-party tracker edits into Display & Video 360 creatives.
// @description	Supports single-creative edits, CSV/XLSX bulk runs and staged sessions.

// @contact.name	DV360 Trackers API Support
// @license.name	MIT

// @host		localhost:8080
// @BasePath	/
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Server.LogLevel, cfg.Server.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	deps, err := bootstrap.Build(cfg, logger, nil)
	if err != nil {
		logger.Error("failed to wire service", zap.Error(err))
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Warn("failed to close stores", zap.Error(err))
		}
	}()

	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestID(), logging.GinMiddleware(logger))

	h := handler.NewHandler(deps.Service, handler.Options{
		Types:         deps.Registry,
		Auth:          deps.Auth,
		MaxUploadRows: cfg.Batch.MaxUploadRows,
		Logger:        logger,
	})
	h.RegisterRoutes(r)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting DV360 Trackers API",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Server.Environment),
			zap.Bool("authorized", deps.Auth.Authorized()),
			zap.String("swagger", "http://localhost"+srv.Addr+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
			return err
		}
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
