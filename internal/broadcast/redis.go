package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gameroom/internal/model"
)

const (
	channelPrefix  = "gameroom:room:"
	channelSuffix  = ":snapshots"
	channelPattern = channelPrefix + "*" + channelSuffix
)

// snapshotChannel returns the pub/sub channel for a room
func snapshotChannel(roomID model.RoomID) string {
	return channelPrefix + string(roomID) + channelSuffix
}

// RedisRelay is a Broadcaster for multi-instance deployments. Snapshots
// are published to Redis and every instance relays them into its own
// local hubs, so a subscriber sees commits made on any instance.
type RedisRelay struct {
	client *redis.Client
	local  *Local
	logger *slog.Logger
	ready  chan struct{}
}

var _ Broadcaster = (*RedisRelay)(nil)

// NewRedisRelay creates a relay over the given client and local hubs.
// Run must be started for subscribers to receive anything.
func NewRedisRelay(client *redis.Client, local *Local, logger *slog.Logger) *RedisRelay {
	return &RedisRelay{
		client: client,
		local:  local,
		logger: logger.With(slog.String("component", "broadcast_relay")),
		ready:  make(chan struct{}),
	}
}

func (r *RedisRelay) Publish(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return r.client.Publish(ctx, snapshotChannel(snap.Room.ID), data).Err()
}

func (r *RedisRelay) Subscribe(ctx context.Context, roomID model.RoomID, current Loader) (*Subscription, error) {
	return r.local.Subscribe(ctx, roomID, current)
}

// Ready is closed once the relay is receiving from Redis
func (r *RedisRelay) Ready() <-chan struct{} {
	return r.ready
}

// Run relays published snapshots into the local hubs until ctx is done
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, channelPattern)
	defer func() {
		_ = pubsub.Close()
	}()

	// Wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", channelPattern, err)
	}
	close(r.ready)
	r.logger.Info("snapshot relay started", slog.String("pattern", channelPattern))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("snapshot relay stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.relay(ctx, msg)
		}
	}
}

func (r *RedisRelay) relay(ctx context.Context, msg *redis.Message) {
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
		r.logger.Warn("undecodable snapshot ignored",
			slog.String("channel", msg.Channel),
			slog.String("error", err.Error()))
		return
	}

	roomID := strings.TrimSuffix(strings.TrimPrefix(msg.Channel, channelPrefix), channelSuffix)
	if model.RoomID(roomID) != snap.Room.ID {
		r.logger.Warn("snapshot on wrong channel ignored",
			slog.String("channel", msg.Channel),
			slog.String("room_id", string(snap.Room.ID)))
		return
	}

	_ = r.local.Publish(ctx, &snap)
}
