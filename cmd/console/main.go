package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/compass-console/compass-console/cmd/console/cli"
	"github.com/compass-console/compass-console/internal/app"
	"github.com/compass-console/compass-console/internal/platform/cache"
	"github.com/compass-console/compass-console/internal/platform/transport"
	"github.com/compass-console/compass-console/internal/session"
	"github.com/compass-console/compass-console/internal/shared"
	"github.com/compass-console/compass-console/internal/users"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := session.NewStore(session.NewFileTokenStore(cfg.TokenPath))
	if err != nil {
		logger.Warn("load persisted token", slog.Any("error", err))
	}

	api := transport.New(transport.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	}, store, logger)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, cache disabled", slog.Any("error", err))
			redisClient = nil
		}
	}
	listCache := cache.NewStore(redisClient, cfg.CacheTTL)

	notifier := shared.NewLogNotifier(logger)
	authService := session.NewService(api, store, notifier, logger)
	userService := users.NewService(users.NewAPIRepository(api), listCache, store, notifier, logger)

	console := cli.New(cli.Options{
		Auth:    authService,
		Session: store,
		Users:   userService,
		Logger:  logger,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
	return console.Run(ctx, os.Args[1:])
}
