package redis

import (
	"fmt"

	"github.com/mcoot/gameroom/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "gameroom"

// Rooms are hashes with fields version, player2 and data. version and
// player2 mirror the JSON document in data so scripts can test them.
const fieldData = "data"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// roomKey returns the Redis key for the hash holding a room snapshot
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}
