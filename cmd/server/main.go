package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sofs91/InspectWise3.0/internal/config"
	"github.com/sofs91/InspectWise3.0/internal/logging"
	"github.com/sofs91/InspectWise3.0/internal/realtime"
	"github.com/sofs91/InspectWise3.0/internal/report"
	"github.com/sofs91/InspectWise3.0/internal/scheduler"
	"github.com/sofs91/InspectWise3.0/internal/server"
	"github.com/sofs91/InspectWise3.0/internal/service"
	"github.com/sofs91/InspectWise3.0/internal/storage"
	"github.com/sofs91/InspectWise3.0/internal/storage/providers"
	"github.com/sofs91/InspectWise3.0/internal/store"
	httptransport "github.com/sofs91/InspectWise3.0/internal/transport/http"
	"github.com/sofs91/InspectWise3.0/internal/workspace"
)

func main() {
	cfg := config.MustLoad()

	_, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		slog.Error("failed to open log file", "err", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.InitDB(cfg.DatabaseUrl, cfg.DBMaxConns)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	allProviders := providers.New(db)

	hub := realtime.NewHub(cfg.Realtime.Buffer)
	defer hub.Close()
	startFeed(ctx, cfg, db, hub)

	registry := workspace.NewRegistry(
		allProviders.TemplateProvider,
		allProviders.ConfigurationProvider,
		hub,
		store.WithEchoWindow(cfg.Realtime.EchoWindow),
	)
	defer registry.Close()
	scheduler.NewResyncScheduler(registry, cfg.ResyncInterval).Start(ctx)

	profiles := service.NewProfileService(allProviders.ProfileProvider)
	router := httptransport.Router(httptransport.Dependencies{
		Auth:           service.NewAuthService(allProviders.AuthProvider, cfg.JWT.Secret, service.LogResetSender{}),
		Profiles:       profiles,
		Organizations:  service.NewOrganizationService(allProviders.OrganizationProvider, allProviders.ProfileProvider),
		Templates:      service.NewTemplateService(registry),
		Configurations: service.NewConfigurationService(registry),
		Inspections:    service.NewInspectionService(registry),
		Reports:        service.NewReportService(registry, report.NewGenerator()),
		Feed:           hub,
	})

	addr := ":" + cfg.Server.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := server.Start(ctx, addr, router, cfg.Server.CORSOrigins); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// startFeed fills the hub from Redis when a relay is deployed, otherwise
// straight from Postgres notifications.
func startFeed(ctx context.Context, cfg *config.Config, db *pgxpool.Pool, hub *realtime.Hub) {
	if cfg.Realtime.RedisAddr == "" {
		listener := realtime.NewListener(db, hub)
		go func() {
			if err := listener.Run(ctx); err != nil {
				slog.Error("realtime listener failed", "err", err)
			}
		}()
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Realtime.RedisAddr,
		Password: cfg.Realtime.RedisPassword,
		DB:       cfg.Realtime.RedisDB,
	})
	bridge := realtime.NewBridge(client, hub)
	go func() {
		defer client.Close()
		if err := bridge.Run(ctx); err != nil {
			slog.Error("realtime bridge failed", "err", err)
		}
	}()
}
