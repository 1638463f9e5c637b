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

	"github.com/redis/go-redis/v9"

	"github.com/holonet/swapi-proxy/internal/config"
	"github.com/holonet/swapi-proxy/pkg/cache"
	"github.com/holonet/swapi-proxy/pkg/logging"
	"github.com/holonet/swapi-proxy/pkg/proxy"
	"github.com/holonet/swapi-proxy/pkg/rewrite"
	"github.com/holonet/swapi-proxy/pkg/upstream"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr()).Msg("redis connection failed")
	}
	logger.Info().Str("addr", cfg.RedisAddr()).Msg("connected to redis")

	store := cache.NewRedisStore(redisClient, cfg.CacheTTL())
	defer store.Close()

	rewriter := rewrite.New(cfg.APIHost, cfg.ExternalHost())
	fetcher := upstream.New(cfg.APIHost, store, rewriter)

	srv := proxy.New(proxy.Options{
		Store:       store,
		Fetcher:     fetcher,
		APIHost:     cfg.APIHost,
		Development: cfg.IsDevelopment(),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Str("upstream", cfg.APIHost).
			Dur("cache_ttl", cfg.CacheTTL()).
			Msg("server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}

	logger.Info().Msg("server stopped")
}
