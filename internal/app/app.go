package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	server "github.com/yungbote/studio-tracker/internal/http"
	"github.com/yungbote/studio-tracker/internal/observability"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub
	Server   *server.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	log, logErr := logger.New(cfg.LogMode)
	if logErr != nil {
		return nil, fmt.Errorf("init logger: %w", logErr)
	}
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.LogSummary(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	observability.Init(log)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	hub := realtime.NewSSEHub(log)
	hub.SetHeartbeat(cfg.SSEHeartbeat)

	reposet := wireRepos(clients, log)
	serviceset, err := wireServices(log, cfg, clients, reposet)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, clients, serviceset, hub)
	srv := wireRouter(log, cfg, serviceset, handlerset)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		SSEHub:       hub,
		Server:       srv,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and forwards bus messages into the hub until ctx is done or
// either fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, ctx := errgroup.WithContext(ctx)

	if err := a.Services.Bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
		return fmt.Errorf("start bus forwarder: %w", err)
	}
	if m := observability.Current(); m != nil {
		if a.Clients.DB != nil {
			m.StartDBCollector(ctx, a.Log, a.Clients.DB.DB())
		}
		m.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "port", a.Cfg.Port)
		return a.Server.Run(ctx, ":"+a.Cfg.Port, a.Cfg.ShutdownTimeout)
	})

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Bus != nil {
		_ = a.Services.Bus.Close()
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
