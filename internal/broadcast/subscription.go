package broadcast

import (
	"iter"
	"sync"

	"github.com/mcoot/gameroom/internal/model"
)

// Subscription is a scoped registration for one room's snapshots. It is
// released by Close, by cancellation of the context it was created with,
// or when the broadcaster shuts down; whichever happens first.
type Subscription struct {
	roomID  model.RoomID
	updates <-chan model.Snapshot
	release func()
	stop    func() bool
	once    sync.Once
}

// RoomID returns the room this subscription follows
func (s *Subscription) RoomID() model.RoomID {
	return s.roomID
}

// Updates returns the delivery channel. It is closed when the
// subscription is released.
func (s *Subscription) Updates() <-chan model.Snapshot {
	return s.updates
}

// All iterates snapshots until the subscription is released or the loop
// breaks. Breaking out of the loop does not release the subscription.
func (s *Subscription) All() iter.Seq[model.Snapshot] {
	return func(yield func(model.Snapshot) bool) {
		for snap := range s.updates {
			if !yield(snap) {
				return
			}
		}
	}
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.stop != nil {
			s.stop()
		}
		s.release()
	})
}
