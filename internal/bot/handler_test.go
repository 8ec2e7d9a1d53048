// internal/bot/handler_test.go
package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[░░░░░░░░░░] 0%", progressBar(0, 10))
	assert.Equal(t, "[█████░░░░░] 50%", progressBar(50, 10))
	assert.Equal(t, "[██████████] 100%", progressBar(100, 10))
	// 16% of 15 chars floors to 2 filled
	assert.Equal(t, "[██░░░░░░░░░░░░░] 16%", progressBar(16, 15))
}

func TestRankEmoji(t *testing.T) {
	assert.Equal(t, "🥇", rankEmoji(1))
	assert.Equal(t, "🥈", rankEmoji(2))
	assert.Equal(t, "🥉", rankEmoji(3))
	assert.Equal(t, "📊", rankEmoji(4))
	assert.Equal(t, "📊", rankEmoji(17))
}
