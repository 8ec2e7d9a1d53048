// internal/models/models.go
package models

import (
	"time"
)

// UserLevel holds one user's XP state within one guild. Level is always
// derived from XP via the leveling formula, never set independently.
type UserLevel struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        string `gorm:"not null;uniqueIndex:idx_user_guild"`
	GuildID       string `gorm:"not null;uniqueIndex:idx_user_guild;index:idx_levels_guild_xp,priority:1"`
	XP            int64  `gorm:"not null;default:0;index:idx_levels_guild_xp,priority:2,sort:desc"`
	Level         int    `gorm:"not null;default:0"`
	TotalMessages int64  `gorm:"not null;default:0"`
	LastXPTime    int64  `gorm:"not null;default:0"` // unix seconds of the last accepted grant
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Birthday stores a user's birthday as "YYYY-MM-DD" or "MM-DD".
type Birthday struct {
	UserID    string `gorm:"primaryKey"`
	Date      string `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
