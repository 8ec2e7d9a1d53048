// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, 15, cfg.XP.MinXP)
	assert.Equal(t, 25, cfg.XP.MaxXP)
	assert.Equal(t, 60, cfg.XP.CooldownSeconds)
	assert.True(t, cfg.XP.LevelUpMessages)
	assert.Equal(t, 9, cfg.Birthdays.AnnounceHour)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadXPRange(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("XP_MIN", "30")
	t.Setenv("XP_MAX", "20")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadHour(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("BIRTHDAY_ANNOUNCE_HOUR", "25")

	_, err := Load()
	assert.Error(t, err)
}
