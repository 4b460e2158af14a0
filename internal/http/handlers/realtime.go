package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/platform/ctxutil"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/realtime"
)

// RealtimeHandler serves the notice stream: deletions and dismissible notices
// for every view the user has open, without polling.
type RealtimeHandler struct {
	Log *logger.Logger
	Hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{Log: log.With("handler", "RealtimeHandler"), Hub: hub}
}

func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "not authenticated", "code": "unauthorized"}})
		return
	}
	client := h.Hub.NewSSEClient(userID)
	h.Hub.AddChannel(client, realtime.UserChannel(userID))
	h.Log.Debug("SSE notice stream open", "user_id", userID.String(), "client_id", client.ID.String())

	h.Hub.ServeHTTP(c.Writer, c.Request, client)
	h.Hub.CloseClient(client)
}
