// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required,notEmpty"`
	// DATABASE_URL selects Postgres when set; otherwise an embedded SQLite
	// database is created under DataDir.
	DatabaseURL   string `env:"DATABASE_URL"`
	DataDir       string `env:"DATA_DIR" envDefault:"./data"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`

	XP        XPConfig
	Birthdays BirthdayConfig
	Log       LogConfig
}

// XPConfig tunes the leveling engine.
type XPConfig struct {
	MinXP           int  `env:"XP_MIN" envDefault:"15"`
	MaxXP           int  `env:"XP_MAX" envDefault:"25"`
	CooldownSeconds int  `env:"XP_COOLDOWN_SECONDS" envDefault:"60"`
	LevelUpMessages bool `env:"XP_LEVEL_UP_MESSAGES" envDefault:"true"`
}

// BirthdayConfig controls the daily birthday announcement.
type BirthdayConfig struct {
	ChannelID    string `env:"BIRTHDAY_CHANNEL_ID"`
	AnnounceHour int    `env:"BIRTHDAY_ANNOUNCE_HOUR" envDefault:"9"`
}

// LogConfig controls log level and optional rotating file output.
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"20"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

// Load reads environment variables into Config and validates them.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.XP.MinXP < 0 || cfg.XP.MaxXP < cfg.XP.MinXP {
		return nil, fmt.Errorf("invalid XP range: min=%d max=%d", cfg.XP.MinXP, cfg.XP.MaxXP)
	}
	if cfg.XP.CooldownSeconds < 0 {
		return nil, fmt.Errorf("invalid XP_COOLDOWN_SECONDS: %d", cfg.XP.CooldownSeconds)
	}
	if cfg.Birthdays.AnnounceHour < 0 || cfg.Birthdays.AnnounceHour > 23 {
		return nil, fmt.Errorf("invalid BIRTHDAY_ANNOUNCE_HOUR: %d", cfg.Birthdays.AnnounceHour)
	}

	return cfg, nil
}
