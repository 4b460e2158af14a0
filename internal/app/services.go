package app

import (
	"fmt"

	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/realtime/bus"
	"github.com/yungbote/studio-tracker/internal/services"
	"github.com/yungbote/studio-tracker/internal/studio/cache"
	"github.com/yungbote/studio-tracker/internal/studio/jobstore"
)

type Services struct {
	Store    jobstore.Store
	Bus      bus.Bus
	Notifier services.StudioNotifier
	Videos   services.VideoService
	Auth     services.AuthService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, repos Repos) (Services, error) {
	var backend jobstore.Store
	switch {
	case repos.Video != nil:
		backend = jobstore.NewRepoStore(repos.Video)
	case clients.DataAPI != nil:
		backend = jobstore.NewAPIStore(clients.DataAPI)
	default:
		return Services{}, fmt.Errorf("no job store backend configured")
	}
	backend = jobstore.Instrument(string(cfg.Store), backend)

	var snapshots cache.SnapshotCache
	if clients.Redis != nil {
		snapshots = cache.NewRedis(log, clients.Redis, cfg.CacheTTL)
	} else {
		snapshots = cache.NewMemory(cfg.CacheTTL)
	}
	store := jobstore.NewCachedStore(backend, snapshots)

	var b bus.Bus
	if clients.Redis != nil {
		rb, err := bus.NewRedisBus(log, clients.Redis, cfg.Redis.Channel)
		if err != nil {
			return Services{}, fmt.Errorf("init redis bus: %w", err)
		}
		b = rb
	} else {
		b = bus.NewLocalBus()
	}

	notifier := services.NewStudioNotifier(&services.BusEmitter{Bus: b, Log: log})
	return Services{
		Store:    store,
		Bus:      b,
		Notifier: notifier,
		Videos:   services.NewVideoService(log, store, clients.Signer, notifier, cfg.PollInterval),
		Auth:     services.NewAuthService(log, cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
	}, nil
}
