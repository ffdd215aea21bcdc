package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

// AllCollections subscribes a client to every collection.
const AllCollections = "*"

type Client struct {
	ID       uuid.UUID
	Channels map[string]bool
	Outbound chan aggregates.ChangeEvent
	done     chan struct{}
	once     sync.Once
}

// Hub fans change events out to streaming clients, keyed by collection.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
	heartbeat     time.Duration
}

var _ aggregates.Publisher = (*Hub)(nil)

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		log:           log.With("component", "ChangeHub"),
		subscriptions: make(map[string]map[*Client]bool),
		heartbeat:     15 * time.Second,
	}
}

func (hub *Hub) NewClient() *Client {
	return &Client{
		ID:       uuid.New(),
		Channels: make(map[string]bool),
		Outbound: make(chan aggregates.ChangeEvent, 32),
		done:     make(chan struct{}),
	}
}

func (hub *Hub) Subscribe(client *Client, collections ...string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for _, ch := range collections {
		ch = strings.TrimSpace(ch)
		if ch == "" {
			continue
		}
		client.Channels[ch] = true
		clients, ok := hub.subscriptions[ch]
		if !ok {
			clients = make(map[*Client]bool)
			hub.subscriptions[ch] = clients
		}
		clients[client] = true
		hub.log.Debug("client subscribed", "client_id", client.ID, "collection", ch)
	}
}

func (hub *Hub) Unsubscribe(client *Client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for ch := range client.Channels {
		if subs, ok := hub.subscriptions[ch]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(hub.subscriptions, ch)
			}
		}
	}
	client.Channels = make(map[string]bool)
}

// Broadcast delivers evt to every client subscribed to its collection or to
// all collections. A client whose buffer is full misses the event.
func (hub *Hub) Broadcast(evt aggregates.ChangeEvent) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	seen := map[*Client]bool{}
	for _, ch := range []string{evt.Collection, AllCollections} {
		for c := range hub.subscriptions[ch] {
			if seen[c] {
				continue
			}
			seen[c] = true
			select {
			case c.Outbound <- evt:
			default:
				hub.log.Warn("dropping change event; outbound buffer full", "client_id", c.ID)
			}
		}
	}
}

// Publish lets the hub stand in for a bus in single-process deployments.
func (hub *Hub) Publish(_ context.Context, evt aggregates.ChangeEvent) error {
	hub.Broadcast(evt)
	return nil
}

func (hub *Hub) Close(client *Client) {
	client.once.Do(func() {
		close(client.done)
		hub.Unsubscribe(client)
		close(client.Outbound)
	})
}

// ServeHTTP streams the client's events as server-sent events until the
// request ends or the client is closed.
func (hub *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *Client) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(hub.heartbeat)
	defer heartbeat.Stop()
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case evt, ok := <-client.Outbound:
			if !ok {
				return
			}
			raw, err := json.Marshal(evt)
			if err != nil {
				hub.log.Warn("failed to marshal change event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Action, raw)
			flusher.Flush()
		}
	}
}
