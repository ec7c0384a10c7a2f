package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-manager/internal/auth"
	"task-manager/internal/config"
	"task-manager/internal/handlers"
	"task-manager/internal/router"
	"task-manager/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", "err", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("configure logger", "err", err)
	}

	if cfg.InsecureSecret() {
		logger.Warn("JWT_SECRET is not set; using the insecure development default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("connect database", "driver", cfg.DBDriver, "err", err)
	}
	defer db.Close()
	logger.Info("database ready", "driver", cfg.DBDriver, "pool", cfg.DBPoolLimit)

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := auth.NewService(cfg.JWTSecret)
	engine := router.New(handlers.New(db, tokens, logger), router.Options{
		AllowAllOrigins: cfg.AllowsAnyOrigin(),
		AllowedOrigins:  cfg.CORSOrigin,
		Authenticator:   tokens,
		Logger:          logger,
	})

	server := &http.Server{Addr: cfg.Addr(), Handler: engine}

	go func() {
		logger.Info("API running", "addr", "http://localhost"+cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	formatter := log.TextFormatter
	switch cfg.LogFormat {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		Prefix:          "taskapi",
	}), nil
}
