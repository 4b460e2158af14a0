package app

import (
	"context"

	httpH "github.com/yungbote/studio-tracker/internal/http/handlers"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/realtime"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Video    *httpH.VideoHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, clients Clients, svcs Services, hub *realtime.SSEHub) Handlers {
	checks := map[string]httpH.ReadinessCheck{}
	if clients.DB != nil {
		checks["db"] = func(ctx context.Context) error {
			sqlDB, err := clients.DB.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(checks),
		Video:    httpH.NewVideoHandler(log, svcs.Videos, hub),
		Realtime: httpH.NewRealtimeHandler(log, hub),
	}
}
