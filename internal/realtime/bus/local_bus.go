package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/studio-tracker/internal/realtime"
)

// localBus delivers in-process only. Used when no redis is configured.
type localBus struct {
	mu    sync.RWMutex
	subs  []func(realtime.SSEMessage)
	close bool
}

func NewLocalBus() Bus { return &localBus{} }

func (b *localBus) Publish(_ context.Context, msg realtime.SSEMessage) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.close {
		return fmt.Errorf("local bus closed")
	}
	for _, fn := range b.subs {
		fn(msg)
	}
	return nil
}

func (b *localBus) StartForwarder(_ context.Context, onMsg func(m realtime.SSEMessage)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, onMsg)
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.close = true
	b.subs = nil
	return nil
}
