package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/anhpls/uniflo/config"
	"github.com/anhpls/uniflo/internal/api/handler"
	"github.com/anhpls/uniflo/internal/api/router"
	"github.com/anhpls/uniflo/internal/repository"
	"github.com/anhpls/uniflo/internal/service"
	"github.com/anhpls/uniflo/pkg/database"
	applogger "github.com/anhpls/uniflo/pkg/logger"
	"github.com/anhpls/uniflo/pkg/redis"
	"github.com/anhpls/uniflo/pkg/storage"
)

func main() {
	// 1. load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting up",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	// 3.1 migrations
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("obtain underlying sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. Redis (optional: parse cache and rate limits degrade without it)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, parse cache and rate limits disabled", zap.Error(err))
		rdb = nil
	}

	// 5. object store for uploaded syllabi
	store, err := storage.NewStore(&cfg.Storage, cfg.Server.BaseURL, logger)
	if err != nil {
		logger.Fatal("init object store failed", zap.Error(err))
	}

	// 6. completion model client (optional: regex path works without it)
	parser, err := service.NewGeminiParser(context.Background(), &cfg.Gemini, logger)
	if err != nil {
		logger.Fatal("init gemini client failed", zap.Error(err))
	}

	// 7. dependency injection: Repository -> Service -> Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, store, rdb, parser, logger)
	h := handler.NewHandler(svc, store)

	// 8. router
	engine := router.Setup(cfg, h, rdb, logger)

	// 9. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
