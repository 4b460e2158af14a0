package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studio-tracker/internal/http/handlers"
	httpMW "github.com/yungbote/studio-tracker/internal/http/middleware"
	"github.com/yungbote/studio-tracker/internal/observability"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	// TracingService enables otelgin spans under this service name.
	TracingService string

	AuthMiddleware  *httpMW.AuthMiddleware
	VideoHandler    *httpH.VideoHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}

		// Studio
		if cfg.VideoHandler != nil {
			protected.GET("/studio/videos", cfg.VideoHandler.ListVideos)
			protected.GET("/studio/videos/stream", cfg.VideoHandler.StreamVideos)
			protected.DELETE("/studio/videos/:id", cfg.VideoHandler.DeleteVideo)
		}
	}

	return r
}
