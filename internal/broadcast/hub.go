package broadcast

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/gameroom/internal/model"
)

// client is one subscriber's queue inside a hub
type client struct {
	send        chan model.Snapshot
	lastSent    int64 // owned by the hub's Run goroutine
	connectedAt time.Time
}

func newClient(bufferSize int) *client {
	return &client{
		send:        make(chan model.Snapshot, bufferSize),
		connectedAt: time.Now(),
	}
}

type priming struct {
	client *client
	snap   model.Snapshot
}

// Hub manages the subscribers of a single room
type Hub struct {
	roomID  model.RoomID
	clients map[*client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	// Channels for managing clients. Registration happens under mu so it
	// can never race a close.
	unregister chan *client
	publish    chan model.Snapshot
	prime      chan priming
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a room
func NewHub(roomID model.RoomID, logger *slog.Logger) *Hub {
	return &Hub{
		roomID:     roomID,
		clients:    make(map[*client]bool),
		logger:     logger.With(slog.String("room_id", string(roomID))),
		unregister: make(chan *client),
		publish:    make(chan model.Snapshot, 64),
		prime:      make(chan priming),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns once Close is called.
func (h *Hub) Run() {
	h.logger.Debug("hub started")
	for {
		select {
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Debug("subscriber unregistered",
					slog.Duration("connection_duration", time.Since(c.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case snap := <-h.publish:
			h.mu.RLock()
			for c := range h.clients {
				h.deliver(c, snap)
			}
			h.mu.RUnlock()

		case p := <-h.prime:
			h.mu.RLock()
			if h.clients[p.client] {
				h.deliver(p.client, p.snap)
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			h.logger.Debug("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// deliver queues snap for c if it is newer than anything c has been sent.
// A full queue loses its oldest entry so the newest state always lands.
func (h *Hub) deliver(c *client, snap model.Snapshot) {
	version := snap.Version()
	if version <= c.lastSent {
		h.logger.Debug("stale snapshot skipped",
			slog.Int64("version", version),
			slog.Int64("last_sent", c.lastSent))
		return
	}
	c.lastSent = version

	select {
	case c.send <- snap:
		return
	default:
	}

	// Only this goroutine sends, so after taking one entry there is room
	select {
	case <-c.send:
		h.logger.Warn("snapshot dropped - subscriber buffer full", slog.Int64("version", version))
	default:
	}
	select {
	case c.send <- snap:
	default:
	}
}

// addClient registers a client with the hub. A closed hub refuses it with
// ErrHubClosed.
func (h *Hub) addClient(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	h.clients[c] = true
	h.logger.Debug("subscriber registered", slog.Int("total_clients", len(h.clients)))
	return nil
}

// removeClient unregisters a client and closes its queue
func (h *Hub) removeClient(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// primeClient delivers a snapshot to one client only
func (h *Hub) primeClient(c *client, snap model.Snapshot) {
	select {
	case h.prime <- priming{client: c, snap: snap}:
	case <-h.done:
	}
}

// Publish sends a snapshot to every client
func (h *Hub) Publish(snap model.Snapshot) {
	select {
	case h.publish <- snap:
	case <-h.done:
	}
}

// Close shuts down the hub. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// closeIfIdle closes the hub only if it has no clients, atomically with
// respect to addClient
func (h *Hub) closeIfIdle() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) > 0 {
		return false
	}
	h.Close()
	return true
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
