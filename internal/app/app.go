package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/http"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	clients      Clients
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envLogMode())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown, err := observability.InitOTel(ctx, log, cfg.Otel)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init otel: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(clients.DB, log)
	serviceset := wireServices(clients.DB, log, cfg, reposet, clients)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := serviceset.Auth.BootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			_ = clients.Close()
			_ = otelShutdown(context.Background())
			log.Sync()
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	handlerset := wireHandlers(log, clients.DB, cfg, serviceset, metrics)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		DB:           clients.DB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		clients:      clients,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr, "env", a.Cfg.Env)
	return a.Server.Run(ctx, addr, a.Cfg.ShutdownTimeout)
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		errs = append(errs, a.otelShutdown(ctx))
		cancel()
	}
	errs = append(errs, a.clients.Close())
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}
