package app

import (
	"github.com/gin-gonic/gin"

	server "github.com/yungbote/studio-tracker/internal/http"
	httpMW "github.com/yungbote/studio-tracker/internal/http/middleware"
	"github.com/yungbote/studio-tracker/internal/observability"
	"github.com/yungbote/studio-tracker/internal/platform/envutil"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, svcs Services, h Handlers) *server.Server {
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	tracing := ""
	if envutil.Bool("OTEL_ENABLED", false) {
		tracing = cfg.Otel.ServiceName
	}
	return server.NewServer(server.RouterConfig{
		Log:             log.With("component", "HTTP"),
		Metrics:         observability.Current(),
		CORSOrigins:     cfg.CORSOrigins,
		TracingService:  tracing,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, svcs.Auth),
		VideoHandler:    h.Video,
		RealtimeHandler: h.Realtime,
		HealthHandler:   h.Health,
	})
}
