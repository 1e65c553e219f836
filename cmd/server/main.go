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
	"go.uber.org/zap/zapcore"

	"bizhub/backend/internal/config"
	"bizhub/backend/internal/httpapi"
	"bizhub/backend/internal/pos"
	"bizhub/backend/internal/service"
	"bizhub/backend/internal/session"
	"bizhub/backend/internal/store"
	"bizhub/backend/internal/store/memory"
)

func main() {
	cfg := config.Load()
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := validateSecurityConfig(cfg); err != nil {
		logger.Fatal("invalid security configuration", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := openRepository(cfg)
	if err != nil {
		logger.Fatal("seed data unavailable", zap.String("seed_file", cfg.SeedFile), zap.Error(err))
	}
	if cfg.SeedFile != "" {
		logger.Info("repository: seed file", zap.String("path", cfg.SeedFile))
	} else {
		logger.Info("repository: built-in sample")
	}

	closers := make([]func() error, 0, 1)
	var sessions session.Store = session.NewMemoryStore(session.WithNow(pos.SystemClock.Now))
	if cfg.RedisAddr != "" {
		redisStore := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisStore.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, keeping sessions in memory", zap.Error(err))
			_ = redisStore.Close()
		} else {
			sessions = redisStore
			closers = append(closers, redisStore.Close)
			logger.Info("sessions: redis", zap.String("addr", cfg.RedisAddr))
		}
	} else {
		logger.Info("sessions: in-memory")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("timezone unavailable, using UTC", zap.Error(err))
	}

	tokens := httpapi.NewTokenManager(cfg.SessionSecret)
	svc := service.New(repo, sessions, service.Options{
		Tokens:     tokens,
		Profile:    cfg.BusinessProfile(),
		Location:   loc,
		SessionTTL: cfg.SessionTTL(),
		Clock:      pos.SystemClock,
		Logger:     logger,
	})
	api := httpapi.New(svc, tokens, cfg.AllowedOrigin, logger)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("business hub backend listening", zap.String("addr", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("close error", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}

func openRepository(cfg config.Config) (store.Repository, error) {
	if cfg.SeedFile == "" {
		return memory.NewSeeded(), nil
	}
	return memory.NewFromFile(cfg.SeedFile)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.LogMode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	return zapConfig.Build(zap.AddCaller())
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be set and at least 32 characters")
	}
	return nil
}
