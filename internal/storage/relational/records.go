package relational

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/rules"
)

type playerRecord struct {
	ID          string    `gorm:"column:id;primaryKey;size:64"`
	DisplayName string    `gorm:"column:display_name;size:255;not null"`
	IsGuest     bool      `gorm:"column:is_guest;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

func (playerRecord) TableName() string { return "players" }

type registeredPlayerRecord struct {
	PlayerID     string    `gorm:"column:player_id;primaryKey;size:64"`
	Username     string    `gorm:"column:username;size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (registeredPlayerRecord) TableName() string { return "registered_players" }

// roomRecord holds a room and its game state in one row, so a single
// conditional UPDATE commits both
type roomRecord struct {
	ID             string    `gorm:"column:id;primaryKey;size:64"`
	GameType       string    `gorm:"column:game_type;size:32;not null"`
	Player1ID      string    `gorm:"column:player1_id;size:64;not null"`
	Player2ID      string    `gorm:"column:player2_id;size:64;not null"`
	Player1Name    string    `gorm:"column:player1_name;size:255"`
	Player2Name    string    `gorm:"column:player2_name;size:255"`
	Status         string    `gorm:"column:status;size:16;not null"`
	WinnerID       string    `gorm:"column:winner_id;size:64"`
	TurnOwner      string    `gorm:"column:turn_owner;size:64"`
	Position       string    `gorm:"column:position;type:text;not null"`
	Version        int64     `gorm:"column:version;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
	StateUpdatedAt time.Time `gorm:"column:state_updated_at"`
}

func (roomRecord) TableName() string { return "rooms" }

func toPlayerRecord(p *model.Player) playerRecord {
	return playerRecord{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
		CreatedAt:   p.CreatedAt,
	}
}

func (r playerRecord) toModel() *model.Player {
	return &model.Player{
		ID:          model.PlayerID(r.ID),
		DisplayName: r.DisplayName,
		IsGuest:     r.IsGuest,
		CreatedAt:   r.CreatedAt,
	}
}

func toRegisteredPlayerRecord(rp *model.RegisteredPlayer) registeredPlayerRecord {
	return registeredPlayerRecord{
		PlayerID:     string(rp.PlayerID),
		Username:     rp.Username,
		PasswordHash: rp.PasswordHash,
		CreatedAt:    rp.CreatedAt,
		UpdatedAt:    rp.UpdatedAt,
	}
}

func (r registeredPlayerRecord) toModel() *model.RegisteredPlayer {
	return &model.RegisteredPlayer{
		PlayerID:     model.PlayerID(r.PlayerID),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toRoomRecord(snap *model.Snapshot) (roomRecord, error) {
	pos, err := json.Marshal(snap.GameState.Position)
	if err != nil {
		return roomRecord{}, fmt.Errorf("encode position: %w", err)
	}
	return roomRecord{
		ID:             string(snap.Room.ID),
		GameType:       string(snap.Room.GameType),
		Player1ID:      string(snap.Room.Player1ID),
		Player2ID:      string(snap.Room.Player2ID),
		Player1Name:    snap.Room.Player1Name,
		Player2Name:    snap.Room.Player2Name,
		Status:         string(snap.Room.Status),
		WinnerID:       string(snap.Room.WinnerID),
		TurnOwner:      string(snap.GameState.TurnOwner),
		Position:       string(pos),
		Version:        snap.GameState.Version,
		CreatedAt:      snap.Room.CreatedAt,
		UpdatedAt:      snap.Room.UpdatedAt,
		StateUpdatedAt: snap.GameState.UpdatedAt,
	}, nil
}

// updates lists every column a transition may change
func (r roomRecord) updates() map[string]any {
	return map[string]any{
		"player2_id":       r.Player2ID,
		"player2_name":     r.Player2Name,
		"status":           r.Status,
		"winner_id":        r.WinnerID,
		"turn_owner":       r.TurnOwner,
		"position":         r.Position,
		"version":          r.Version,
		"updated_at":       r.UpdatedAt,
		"state_updated_at": r.StateUpdatedAt,
	}
}

func (r roomRecord) toModel() (*model.Snapshot, error) {
	pos, err := rules.DecodePosition([]byte(r.Position))
	if err != nil {
		return nil, fmt.Errorf("decode room %s: %w", r.ID, err)
	}
	return &model.Snapshot{
		Room: model.Room{
			ID:          model.RoomID(r.ID),
			GameType:    rules.GameType(r.GameType),
			Player1ID:   model.PlayerID(r.Player1ID),
			Player2ID:   model.PlayerID(r.Player2ID),
			Player1Name: r.Player1Name,
			Player2Name: r.Player2Name,
			Status:      model.RoomStatus(r.Status),
			WinnerID:    model.PlayerID(r.WinnerID),
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		},
		GameState: model.GameState{
			RoomID:    model.RoomID(r.ID),
			Position:  pos,
			TurnOwner: model.PlayerID(r.TurnOwner),
			Version:   r.Version,
			UpdatedAt: r.StateUpdatedAt,
		},
	}, nil
}
