// Command relay forwards Postgres row change notifications to Redis so that
// any number of API processes can share one LISTEN connection.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/sofs91/InspectWise3.0/internal/config"
	"github.com/sofs91/InspectWise3.0/internal/logging"
	"github.com/sofs91/InspectWise3.0/internal/realtime"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	_, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		slog.Error("failed to open log file", "err", err)
		os.Exit(1)
	}
	defer closeLog()

	if cfg.Realtime.RedisAddr == "" {
		slog.Error("relay requires realtime.redis_addr")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.InitDB(cfg.DatabaseUrl, 2)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Realtime.RedisAddr,
		Password: cfg.Realtime.RedisPassword,
		DB:       cfg.Realtime.RedisDB,
	})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect to redis", "addr", cfg.Realtime.RedisAddr, "err", err)
		os.Exit(1)
	}

	bridge := realtime.NewBridge(client, nil)
	slog.Info("relay started", "redis", cfg.Realtime.RedisAddr)
	if err := realtime.NewListener(db, bridge).Run(ctx); err != nil {
		slog.Error("relay stopped", "err", err)
	}
}
