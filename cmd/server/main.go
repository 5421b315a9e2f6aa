package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"adda/internal/config"
	"adda/internal/crypto"
	"adda/internal/db"
	"adda/internal/feed"
	"adda/internal/handlers"
	mw "adda/internal/middleware"
	"adda/internal/store"
)

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open db", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer dbConn.Close()
	if err := db.RunMigrations(ctx, dbConn); err != nil {
		logger.Fatal("failed migrations", zap.Error(err))
	}

	sealer, err := crypto.NewSealer(cfg.EncryptionKey)
	if err != nil {
		logger.Fatal("invalid encryption key", zap.Error(err))
	}
	if !sealer.Enabled() {
		logger.Warn("ENCRYPTION_KEY not set; gig application UPI ids are stored unencrypted")
	}

	st := store.New(dbConn, logger.Named("store"),
		store.WithSealer(sealer),
		store.WithStrictModeration(cfg.ModerationStrict),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := mw.NewMetrics(reg)

	feedOpts := []feed.Option{feed.WithCacheObserver(metrics.ObserveFeedCache)}
	if cfg.RedisURL != "" {
		rdb, err := feed.Dial(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable; feed cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			feedOpts = append(feedOpts, feed.WithCache(feed.NewRedisCache(rdb, cfg.FeedCacheTTL)))
			logger.Info("feed cache enabled", zap.Duration("ttl", cfg.FeedCacheTTL))
		}
	}
	feedSvc := feed.NewService(st, logger.Named("feed"), feedOpts...)

	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH not set; admin login disabled")
	}

	router := handlers.NewRouter(handlers.Deps{
		Store:    st,
		Feed:     feedSvc,
		Logger:   logger,
		Metrics:  metrics,
		Gatherer: reg,
		Admin: handlers.AdminConfig{
			JWTSecret:         []byte(cfg.JWTSecret),
			AdminUser:         cfg.AdminUser,
			AdminPasswordHash: cfg.AdminPasswordHash,
		},
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
