package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundhouse/internal/config"
	"github.com/fundhouse/internal/db"
	"github.com/fundhouse/internal/handler"
	"github.com/fundhouse/internal/logging"
	"github.com/fundhouse/internal/router"
	"github.com/fundhouse/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN, logging.Gorm(logger, cfg.LogLevel)); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := db.EnsureUser(db.DB, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		logger.Fatal("failed to ensure super root user", zap.Error(err))
	}

	store := storage.NewFileStore(cfg.UploadDir, cfg.UploadURLPath, cfg.MaxUploadBytes)
	api := handler.NewAPI(db.DB, store, logger)

	// 设置 Gin 路由
	r, err := router.SetupRouter(cfg, api, logger)
	if err != nil {
		logger.Fatal("failed to set up router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr), zap.String("driver", cfg.DatabaseDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
