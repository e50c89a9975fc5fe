package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/gameroom/internal/model"
)

// DefaultBufferSize is the per-subscriber queue length
const DefaultBufferSize = 16

// Local is an in-process Broadcaster with one hub per watched room
type Local struct {
	hubs       map[model.RoomID]*Hub
	mu         sync.RWMutex
	logger     *slog.Logger
	bufferSize int
}

var _ Broadcaster = (*Local)(nil)

// NewLocal creates a new in-process broadcaster
func NewLocal(logger *slog.Logger, bufferSize int) *Local {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Local{
		hubs:       make(map[model.RoomID]*Hub),
		logger:     logger.With(slog.String("component", "broadcast")),
		bufferSize: bufferSize,
	}
}

// Publish hands the snapshot to the room's hub. Rooms nobody watches have
// no hub and the snapshot is discarded.
func (m *Local) Publish(ctx context.Context, snap *model.Snapshot) error {
	hub := m.GetHub(snap.Room.ID)
	if hub == nil {
		return nil
	}
	hub.Publish(*snap)
	return nil
}

func (m *Local) Subscribe(ctx context.Context, roomID model.RoomID, current Loader) (*Subscription, error) {
	// A hub can be closed by CleanupEmptyHubs between lookup and
	// registration; the retry then gets a fresh hub
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hub := m.GetOrCreateHub(roomID)
		c := newClient(m.bufferSize)
		if err := hub.addClient(c); err != nil {
			if errors.Is(err, ErrHubClosed) {
				continue
			}
			return nil, err
		}

		snap, err := current(ctx)
		if err != nil {
			hub.removeClient(c)
			return nil, err
		}
		hub.primeClient(c, *snap)

		sub := &Subscription{
			roomID:  roomID,
			updates: c.send,
			release: func() { hub.removeClient(c) },
		}
		sub.stop = context.AfterFunc(ctx, sub.Close)
		return sub, nil
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *Local) GetOrCreateHub(roomID model.RoomID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		return hub
	}

	hub := NewHub(roomID, m.logger)
	m.hubs[roomID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *Local) GetHub(roomID model.RoomID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID]
}

// SubscriberCount returns the number of live subscriptions to a room
func (m *Local) SubscriberCount(roomID model.RoomID) int {
	hub := m.GetHub(roomID)
	if hub == nil {
		return 0
	}
	return hub.ClientCount()
}

// RemoveHub closes a room's hub, releasing all of its subscriptions
func (m *Local) RemoveHub(roomID model.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		hub.Close()
		delete(m.hubs, roomID)
		m.logger.Info("hub removed", slog.String("room_id", string(roomID)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *Local) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for id, hub := range m.hubs {
		if hub.closeIfIdle() {
			delete(m.hubs, id)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}

// RunJanitor calls CleanupEmptyHubs every interval until ctx is done. A
// non-positive interval disables it.
func (m *Local) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupEmptyHubs()
		}
	}
}

// Close shuts down every hub
func (m *Local) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
}
