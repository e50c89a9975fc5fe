// Package relational stores rooms and players in a SQL database through
// gorm. Postgres is the production target; SQLite serves single-node
// deployments and tests.
package relational

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/storage"
)

// Storage is a gorm-backed implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// OpenPostgres connects to Postgres and migrates the schema
func OpenPostgres(dsn string, logger *slog.Logger) (*Storage, error) {
	return Open(postgres.Open(dsn), logger)
}

// OpenSQLite opens a SQLite database file and migrates the schema.
// SQLite allows one writer, so the pool is limited to one connection.
func OpenSQLite(path string, logger *slog.Logger) (*Storage, error) {
	s, err := Open(sqlite.Open(path), logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return s, nil
}

// Open connects with any gorm dialector and migrates the schema
func Open(dialector gorm.Dialector, logger *slog.Logger) (*Storage, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&playerRecord{}, &registeredPlayerRecord{}, &roomRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	rec := toPlayerRecord(player)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var rec playerRecord
	err := s.db.WithContext(ctx).Where("id = ?", string(id)).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return rec.toModel(), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.db.WithContext(ctx).Where("id = ?", string(id)).Delete(&playerRecord{}).Error
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	rec := toRegisteredPlayerRecord(rp)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return s.findRegisteredPlayer(ctx, "player_id = ?", string(playerID))
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	return s.findRegisteredPlayer(ctx, "username = ?", username)
}

func (s *Storage) findRegisteredPlayer(ctx context.Context, query string, arg any) (*model.RegisteredPlayer, error) {
	var rec registeredPlayerRecord
	err := s.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return rec.toModel(), nil
}

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, snap *model.Snapshot) error {
	rec, err := toRoomRecord(snap)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrRoomExists
	}
	return err
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.RoomID) (*model.Snapshot, error) {
	var rec roomRecord
	err := s.db.WithContext(ctx).Where("id = ?", string(id)).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}
	return rec.toModel()
}

func (s *Storage) ClaimSeat(ctx context.Context, next *model.Snapshot) error {
	return s.conditionalUpdate(ctx, next, "player2_id = ?", "", model.ErrSeatTaken)
}

func (s *Storage) CompareAndSwap(ctx context.Context, next *model.Snapshot, expectedVersion int64) error {
	return s.conditionalUpdate(ctx, next, "version = ?", expectedVersion, model.ErrConflict)
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	return s.db.WithContext(ctx).Where("id = ?", string(id)).Delete(&roomRecord{}).Error
}

// conditionalUpdate writes next if the row matches cond. When no row is
// updated it tells a missing room apart from a failed condition.
func (s *Storage) conditionalUpdate(ctx context.Context, next *model.Snapshot, cond string, arg any, failed error) error {
	rec, err := toRoomRecord(next)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Model(&roomRecord{}).
		Where("id = ?", rec.ID).
		Where(cond, arg).
		Updates(rec.updates())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&roomRecord{}).Where("id = ?", rec.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return model.ErrRoomNotFound
	}
	return failed
}
