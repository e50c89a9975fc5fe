package memory

import (
	"context"
	"sync"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Rooms are stored by value so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	rooms             map[model.RoomID]model.Snapshot
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		rooms:             make(map[model.RoomID]model.Snapshot),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *rp
	s.registeredPlayers[rp.PlayerID] = &r
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	r := *rp
	return &r, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	r := *rp
	return &r, nil
}

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[snap.Room.ID]; ok {
		return model.ErrRoomExists
	}
	s.rooms[snap.Room.ID] = *snap
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.RoomID) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return &snap, nil
}

func (s *Storage) ClaimSeat(ctx context.Context, next *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.rooms[next.Room.ID]
	if !ok {
		return model.ErrRoomNotFound
	}
	if !current.Room.SeatOpen() {
		return model.ErrSeatTaken
	}
	s.rooms[next.Room.ID] = *next
	return nil
}

func (s *Storage) CompareAndSwap(ctx context.Context, next *model.Snapshot, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.rooms[next.Room.ID]
	if !ok {
		return model.ErrRoomNotFound
	}
	if current.GameState.Version != expectedVersion {
		return model.ErrConflict
	}
	s.rooms[next.Room.ID] = *next
	return nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}
