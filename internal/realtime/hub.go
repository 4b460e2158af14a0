package realtime

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/observability"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

const (
	defaultHeartbeat = 15 * time.Second
	outboundBuffer   = 32
)

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	Logger   *logger.Logger

	done      chan struct{}
	closeOnce sync.Once
}

type SSEHub struct {
	mu            sync.RWMutex
	logger        *logger.Logger
	heartbeat     time.Duration
	subscriptions map[string]map[*SSEClient]bool
}

func NewSSEHub(log *logger.Logger) *SSEHub {
	return &SSEHub{
		logger:        log.With("component", "SSEHub"),
		heartbeat:     defaultHeartbeat,
		subscriptions: make(map[string]map[*SSEClient]bool),
	}
}

// SetHeartbeat changes the comment ping interval for streams served afterwards.
func (hub *SSEHub) SetHeartbeat(d time.Duration) {
	if d > 0 {
		hub.heartbeat = d
	}
}

func (hub *SSEHub) NewSSEClient(userID uuid.UUID) *SSEClient {
	id := uuid.New()
	observability.Current().SSEClientsInc()
	return &SSEClient{
		ID:       id,
		UserID:   userID,
		Channels: make(map[string]bool),
		Outbound: make(chan SSEMessage, outboundBuffer),
		done:     make(chan struct{}),
		Logger:   hub.logger.With("client_id", id.String()),
	}
}

func (hub *SSEHub) AddChannel(client *SSEClient, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()

	client.Channels[channel] = true
	clients, exists := hub.subscriptions[channel]
	if !exists {
		clients = make(map[*SSEClient]bool)
		hub.subscriptions[channel] = clients
	}
	clients[client] = true
	hub.logger.Debug("SSE client subscribed", "client_id", client.ID, "channel", channel)
}

func (hub *SSEHub) RemoveClient(client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for ch := range client.Channels {
		hub.unsubscribeLocked(client, ch)
	}
}

func (hub *SSEHub) unsubscribeLocked(client *SSEClient, channel string) {
	delete(client.Channels, channel)
	if subMap, ok := hub.subscriptions[channel]; ok {
		delete(subMap, client)
		if len(subMap) == 0 {
			delete(hub.subscriptions, channel)
		}
	}
}

// Broadcast fans msg out to every client on msg.Channel. Slow clients drop
// messages rather than block the sender.
func (hub *SSEHub) Broadcast(msg SSEMessage) {
	if msg.Channel == "" {
		return
	}
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for c := range hub.subscriptions[msg.Channel] {
		hub.deliver(c, msg)
	}
}

// Send delivers msg to one client. It reports false when the client is closed
// or its buffer is full.
func (hub *SSEHub) Send(client *SSEClient, msg SSEMessage) bool {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return hub.deliver(client, msg)
}

// deliver requires hub.mu held for reading; CloseClient closes Outbound under
// the write lock, so a send here never races a close.
func (hub *SSEHub) deliver(c *SSEClient, msg SSEMessage) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Outbound <- msg:
		return true
	default:
		hub.logger.Warn("Dropping SSE message; outbound buffer full", "client_id", c.ID, "event", msg.Event)
		return false
	}
}

// ServeHTTP streams the client's messages until the request ends or the client
// is closed.
func (hub *SSEHub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *SSEClient) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	heartbeat := time.NewTicker(hub.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			hub.logger.Debug("SSE client context done", "client_id", client.ID, "err", ctx.Err())
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-client.Outbound:
			if !ok {
				return
			}
			if err := WriteEvent(w, msg); err != nil {
				hub.logger.Warn("Failed to write SSE message", "error", err)
				continue
			}
			flusher.Flush()
		}
	}
}

// WriteEvent renders msg as one SSE frame named after its event.
func WriteEvent(w io.Writer, msg SSEMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, raw)
	return err
}

// CloseClient unsubscribes and closes the client. Safe to call more than once.
func (hub *SSEHub) CloseClient(client *SSEClient) {
	client.closeOnce.Do(func() {
		hub.mu.Lock()
		close(client.done)
		for ch := range client.Channels {
			hub.unsubscribeLocked(client, ch)
		}
		close(client.Outbound)
		hub.mu.Unlock()
		observability.Current().SSEClientsDec()
	})
}
