package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/realtime"
)

// StudioNotifier pushes user-scoped studio events to every open stream of
// that user.
type StudioNotifier interface {
	VideoDeleted(ctx context.Context, userID, videoID uuid.UUID)
	Notice(ctx context.Context, userID uuid.UUID, n realtime.Notice)
}

type studioNotifier struct {
	emit SSEEmitter
}

func NewStudioNotifier(emit SSEEmitter) StudioNotifier {
	return &studioNotifier{emit: emit}
}

func (n *studioNotifier) VideoDeleted(ctx context.Context, userID, videoID uuid.UUID) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventStudioDeleted,
		Data:    map[string]any{"video_id": videoID},
	})
}

func (n *studioNotifier) Notice(ctx context.Context, userID uuid.UUID, notice realtime.Notice) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventStudioNotice,
		Data:    notice,
	})
}
