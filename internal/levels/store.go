// internal/levels/store.go
package levels

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"discord-community-bot/internal/database"
	"discord-community-bot/internal/models"
)

// ErrNotFound is returned when no level record exists for a (user, guild)
// pair. "Never participated" is an expected case, not a failure.
var ErrNotFound = errors.New("levels: record not found")

// Store is the narrow persistence surface the engine depends on. Creation is
// an explicit two-step find/create contract so initial field values stay
// visible, not an implicit upsert.
type Store interface {
	Find(ctx context.Context, userID, guildID string) (*models.UserLevel, error)
	Create(ctx context.Context, rec *models.UserLevel) error
	Save(ctx context.Context, rec *models.UserLevel) error
	TopByGuild(ctx context.Context, guildID string, limit int) ([]models.UserLevel, error)
	CountWithMoreXP(ctx context.Context, guildID string, xp int64) (int64, error)
	CountByGuild(ctx context.Context, guildID string) (int64, error)
}

// GormStore persists level records through the shared gorm handle.
type GormStore struct {
	db *database.DB
}

func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Find(ctx context.Context, userID, guildID string) (*models.UserLevel, error) {
	var rec models.UserLevel
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find level record: %w", err)
	}
	return &rec, nil
}

func (s *GormStore) Create(ctx context.Context, rec *models.UserLevel) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create level record: %w", err)
	}
	return nil
}

func (s *GormStore) Save(ctx context.Context, rec *models.UserLevel) error {
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("save level record: %w", err)
	}
	return nil
}

func (s *GormStore) TopByGuild(ctx context.Context, guildID string, limit int) ([]models.UserLevel, error) {
	var recs []models.UserLevel
	err := s.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("xp DESC, level DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	return recs, nil
}

func (s *GormStore) CountWithMoreXP(ctx context.Context, guildID string, xp int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.UserLevel{}).
		Where("guild_id = ? AND xp > ?", guildID, xp).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count higher ranked: %w", err)
	}
	return count, nil
}

func (s *GormStore) CountByGuild(ctx context.Context, guildID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.UserLevel{}).
		Where("guild_id = ?", guildID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count guild records: %w", err)
	}
	return count, nil
}
