// Package broadcast fans committed room snapshots out to subscribers.
//
// Every subscriber receives snapshots in strictly increasing version order.
// Duplicates and stale snapshots are dropped before delivery, and a slow
// subscriber loses intermediate snapshots rather than the newest one.
package broadcast

import (
	"context"
	"errors"

	"github.com/mcoot/gameroom/internal/model"
)

// ErrHubClosed is returned when registering with a hub that has shut down
var ErrHubClosed = errors.New("hub is closed")

// Loader reads the current committed snapshot of a room
type Loader func(ctx context.Context) (*model.Snapshot, error)

// Broadcaster delivers committed snapshots to room subscribers.
// Delivery is at-least-once for the newest snapshot only.
type Broadcaster interface {
	// Publish announces a committed snapshot. It never blocks on subscribers.
	Publish(ctx context.Context, snap *model.Snapshot) error
	// Subscribe registers for a room's snapshots. The subscription is primed
	// with the snapshot returned by current, read after registration so no
	// commit is missed.
	Subscribe(ctx context.Context, roomID model.RoomID, current Loader) (*Subscription, error)
}
