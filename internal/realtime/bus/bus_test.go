package bus

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/realtime"
)

func TestLocalBus(t *testing.T) {
	b := NewLocalBus()
	var got []realtime.SSEMessage
	if err := b.StartForwarder(context.Background(), func(m realtime.SSEMessage) { got = append(got, m) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: "c", Event: realtime.SSEEventStudioNotice}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 1 || got[0].Event != realtime.SSEEventStudioNotice {
		t.Fatalf("unexpected forwarded messages: %+v", got)
	}
	_ = b.Close()
	if err := b.Publish(context.Background(), realtime.SSEMessage{}); err == nil {
		t.Fatalf("expected publish after close to fail")
	}
}

func TestRedisBusRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	b, err := NewRedisBus(logger.Nop(), rdb, "studio-sse-test")
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	recv := make(chan realtime.SSEMessage, 1)
	if err := b.StartForwarder(ctx, func(m realtime.SSEMessage) { recv <- m }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.Publish(ctx, realtime.SSEMessage{Channel: "user:x", Event: realtime.SSEEventStudioDeleted}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case m := <-recv:
		if m.Event != realtime.SSEEventStudioDeleted || m.Channel != "user:x" {
			t.Fatalf("unexpected message %+v", m)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for forwarded message")
	}
}

func TestNewRedisBusRequiresClient(t *testing.T) {
	if _, err := NewRedisBus(logger.Nop(), nil, ""); err == nil {
		t.Fatalf("expected error without client")
	}
}
