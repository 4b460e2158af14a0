package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := UserChannel(uuid.New())

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventStudioSnapshot, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventStudioIdle})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventStudioSnapshot {
		t.Fatalf("first event: want=%s got=%s", SSEEventStudioSnapshot, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventStudioIdle {
		t.Fatalf("second event: want=%s got=%s", SSEEventStudioIdle, got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	// Broadcasting to a channel with only closed clients must not panic.
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventStudioNotice})

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventStudioDeleted})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventStudioDeleted {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventStudioDeleted, got.Event)
	}
}

func TestSSEHubSendToClosedClient(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	c := hub.NewSSEClient(uuid.New())
	if !hub.Send(c, SSEMessage{Event: SSEEventStudioSnapshot}) {
		t.Fatalf("expected send to open client to succeed")
	}
	hub.CloseClient(c)
	if hub.Send(c, SSEMessage{Event: SSEEventStudioSnapshot}) {
		t.Fatalf("expected send to closed client to fail")
	}
}

func TestSSEHubServeHTTP(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.New())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	hub.Send(client, SSEMessage{Event: SSEEventStudioIdle})

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" && len(lines) > 0 {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) != 2 || lines[0] != "event: studio.idle" || !strings.HasPrefix(lines[1], "data: {") {
		t.Fatalf("unexpected frame %q", lines)
	}
	hub.CloseClient(client)
}
