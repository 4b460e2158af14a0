package realtime

import "github.com/google/uuid"

type SSEEvent string

const (
	// SSEEventStudioSnapshot carries the whole job list for one view.
	SSEEventStudioSnapshot SSEEvent = "studio.snapshot"
	// SSEEventStudioIdle fires when every job in the view is terminal.
	SSEEventStudioIdle SSEEvent = "studio.idle"
	// SSEEventStudioError carries a refresh failure; polling continues.
	SSEEventStudioError SSEEvent = "studio.error"
	// SSEEventStudioNotice is a dismissible user-facing notice.
	SSEEventStudioNotice SSEEvent = "studio.notice"
	// SSEEventStudioDeleted tells other views of the same user to drop a job.
	SSEEventStudioDeleted SSEEvent = "studio.deleted"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// UserChannel is the channel every stream of one user is subscribed to.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is the payload of SSEEventStudioNotice.
type Notice struct {
	ID          uuid.UUID   `json:"id"`
	Level       NoticeLevel `json:"level"`
	Message     string      `json:"message"`
	Dismissible bool        `json:"dismissible"`
}

func NewNotice(level NoticeLevel, message string) Notice {
	return Notice{ID: uuid.New(), Level: level, Message: message, Dismissible: true}
}
