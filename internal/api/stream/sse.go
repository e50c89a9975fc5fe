// Package stream writes room snapshot subscriptions to HTTP clients, as
// server-sent events or over a WebSocket
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/gameroom/internal/api/response"
	"github.com/mcoot/gameroom/internal/broadcast"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// EventSnapshot names the SSE event carrying a room snapshot
	EventSnapshot = "snapshot"
)

// ServeSSE streams a subscription as server-sent events until the client
// disconnects or the subscription is released. Each event's id is the
// snapshot version.
func ServeSSE(w http.ResponseWriter, r *http.Request, sub *broadcast.Subscription, logger *slog.Logger) {
	defer sub.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// The stream outlives the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-sub.Updates():
			if !ok {
				return
			}
			data, err := json.Marshal(response.SnapshotFromModel(&snap))
			if err != nil {
				logger.Error("snapshot encode failed",
					slog.String("room_id", string(snap.Room.ID)),
					slog.String("error", err.Error()))
				return
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", snap.Version(), EventSnapshot, data); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
