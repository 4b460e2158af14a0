package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studio-tracker/internal/clients/dataapi"
	"github.com/yungbote/studio-tracker/internal/data/db"
	"github.com/yungbote/studio-tracker/internal/platform/gcp"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

type Clients struct {
	DB      *db.Service
	DataAPI dataapi.Client
	Redis   goredis.UniversalClient
	Signer  gcp.URLSigner
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	var out Clients
	var err error

	switch cfg.Store {
	case StorePostgres:
		out.DB, err = db.NewPostgresService(log, cfg.Postgres)
	case StoreSQLite:
		out.DB, err = db.NewSQLiteService(log, cfg.SQLitePath)
	case StoreDataAPI:
		out.DataAPI, err = dataapi.New(log, cfg.DataAPI)
	}
	if err != nil {
		return out, fmt.Errorf("init %s store: %w", cfg.Store, err)
	}
	if out.DB != nil {
		if err := out.DB.AutoMigrateAll(); err != nil {
			out.Close()
			return out, fmt.Errorf("automigrate: %w", err)
		}
	}

	if cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: 5 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			out.Close()
			return out, fmt.Errorf("redis ping: %w", err)
		}
		out.Redis = rdb
	}

	out.Signer, err = gcp.NewURLSigner(ctx, log, cfg.Storage)
	if err != nil {
		out.Close()
		return out, fmt.Errorf("init url signer: %w", err)
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Signer != nil {
		_ = c.Signer.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
