package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/http/response"
	pkgerrors "github.com/yungbote/studio-tracker/internal/pkg/errors"
	"github.com/yungbote/studio-tracker/internal/platform/apierr"
	"github.com/yungbote/studio-tracker/internal/platform/ctxutil"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/realtime"
	"github.com/yungbote/studio-tracker/internal/services"
	"github.com/yungbote/studio-tracker/internal/studio/jobstore"
)

const (
	codeInvalidVideoID     = "invalid_video_id"
	codeStudioUnavailable  = "studio_unavailable"
	codeStudioInternal     = "studio_internal"
	errorRetryMilliseconds = 10000
)

type VideoHandler struct {
	log    *logger.Logger
	videos services.VideoService
	hub    *realtime.SSEHub
}

func NewVideoHandler(log *logger.Logger, videos services.VideoService, hub *realtime.SSEHub) *VideoHandler {
	return &VideoHandler{log: log.With("handler", "VideoHandler"), videos: videos, hub: hub}
}

// GET /api/studio/videos
func (h *VideoHandler) ListVideos(c *gin.Context) {
	owner := ctxutil.UserID(c.Request.Context())
	views, err := h.videos.List(c.Request.Context(), owner)
	if err != nil {
		response.RespondAPIError(c, storeError(err), codeStudioInternal)
		return
	}
	response.RespondOK(c, gin.H{"videos": views})
}

// DELETE /api/studio/videos/:id
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, codeInvalidVideoID, fmt.Errorf("%w: video id %q", pkgerrors.ErrInvalidArgument, c.Param("id")))
		return
	}
	owner := ctxutil.UserID(c.Request.Context())
	outcome, err := h.videos.Delete(c.Request.Context(), owner, id)
	if err != nil {
		response.RespondAPIError(c, storeError(err), codeStudioInternal)
		return
	}
	response.RespondOK(c, gin.H{"result": outcome})
}

// GET /api/studio/videos/stream
//
// One poller per connection: it starts with the stream and stops when the
// client goes away. The stream also carries the user's notices.
func (h *VideoHandler) StreamVideos(c *gin.Context) {
	ctx := c.Request.Context()
	owner := ctxutil.UserID(ctx)
	client := h.hub.NewSSEClient(owner)
	defer h.hub.CloseClient(client)
	h.hub.AddChannel(client, realtime.UserChannel(owner))

	send := func(event realtime.SSEEvent, data any) {
		h.hub.Send(client, realtime.SSEMessage{Event: event, Data: data})
	}
	// A failing streak is reported once; the next snapshot ends it.
	var failing atomic.Bool
	p, err := h.videos.Watch(ctx, owner, services.WatchHandlers{
		OnViews: func(views []services.VideoView) {
			failing.Store(false)
			send(realtime.SSEEventStudioSnapshot, gin.H{"videos": views})
		},
		OnError: func(err error) {
			if failing.Swap(true) {
				return
			}
			send(realtime.SSEEventStudioError, gin.H{"code": codeStudioUnavailable, "retryable": jobstore.IsFetchError(err)})
		},
		OnIdle: func() {
			send(realtime.SSEEventStudioIdle, gin.H{})
		},
	})
	defer p.Stop()

	if err != nil {
		// The browser reconnects after the retry hint and a fresh poller takes over.
		h.log.Warn("Studio stream initial load failed", "error", err)
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Status(http.StatusOK)
		_, _ = c.Writer.WriteString("retry: " + strconv.Itoa(errorRetryMilliseconds) + "\n\n")
		_ = realtime.WriteEvent(c.Writer, realtime.SSEMessage{
			Event: realtime.SSEEventStudioError,
			Data:  gin.H{"code": codeStudioUnavailable, "retryable": true},
		})
		c.Writer.Flush()
		return
	}
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

// storeError maps job store failures to API errors.
func storeError(err error) error {
	if jobstore.IsFetchError(err) {
		return apierr.New(http.StatusBadGateway, codeStudioUnavailable, errors.New("studio backend unavailable"))
	}
	return err
}
