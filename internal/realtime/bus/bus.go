// Package bus fans realtime messages out across server replicas.
package bus

import (
	"context"

	"github.com/yungbote/studio-tracker/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
