// internal/levels/store_test.go
package levels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-community-bot/internal/database"
	"discord-community-bot/internal/models"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.New("", t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewGormStore(db)
}

func TestGormStoreFindNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Find(context.Background(), "nobody", "g1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreCreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rec := &models.UserLevel{UserID: "u1", GuildID: "g1"}
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.Find(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.XP)
	assert.Equal(t, 0, got.Level)
	assert.Equal(t, int64(0), got.TotalMessages)
	assert.Equal(t, int64(0), got.LastXPTime)
}

func TestGormStoreSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rec := &models.UserLevel{UserID: "u1", GuildID: "g1"}
	require.NoError(t, store.Create(ctx, rec))

	rec.XP = 120
	rec.Level = LevelForXP(rec.XP)
	rec.TotalMessages = 6
	rec.LastXPTime = time.Now().Unix()
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Find(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), got.XP)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, int64(6), got.TotalMessages)
}

func TestGormStoreGuildPartitioning(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Same user, two guilds, independent state.
	require.NoError(t, store.Create(ctx, &models.UserLevel{UserID: "u1", GuildID: "g1", XP: 50}))
	require.NoError(t, store.Create(ctx, &models.UserLevel{UserID: "u1", GuildID: "g2", XP: 900, Level: 3}))

	g1, err := store.Find(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), g1.XP)

	g2, err := store.Find(ctx, "u1", "g2")
	require.NoError(t, err)
	assert.Equal(t, int64(900), g2.XP)
}

func TestGormStoreTopByGuild(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, rec := range []models.UserLevel{
		{UserID: "a", GuildID: "g1", XP: 100, Level: 1},
		{UserID: "b", GuildID: "g1", XP: 300, Level: 1},
		{UserID: "c", GuildID: "g1", XP: 50},
		{UserID: "d", GuildID: "g2", XP: 9999, Level: 9},
	} {
		rec := rec
		require.NoError(t, store.Create(ctx, &rec))
	}

	top, err := store.TopByGuild(ctx, "g1", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].UserID)
	assert.Equal(t, "a", top[1].UserID)
}

func TestGormStoreCounts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, rec := range []models.UserLevel{
		{UserID: "a", GuildID: "g1", XP: 100},
		{UserID: "b", GuildID: "g1", XP: 100},
		{UserID: "c", GuildID: "g1", XP: 50},
	} {
		rec := rec
		require.NoError(t, store.Create(ctx, &rec))
	}

	higher, err := store.CountWithMoreXP(ctx, "g1", 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), higher)

	higher, err = store.CountWithMoreXP(ctx, "g1", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), higher)

	total, err := store.CountByGuild(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestEngineAgainstGormStore(t *testing.T) {
	// The full grant path through real storage.
	ctx := context.Background()
	e := New(newTestStore(t), Options{Sampler: func(_, _ int) int { return 25 }})

	base := time.Unix(1_700_000_000, 0)
	for i := 0; i < 4; i++ {
		res, err := e.RecordActivity(ctx, "u1", "g1", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.True(t, res.Granted)
	}

	rec, err := e.Get(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.XP)
	assert.Equal(t, 1, rec.Level)
	assert.Equal(t, int64(4), rec.TotalMessages)

	rank, err := e.Rank(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
}
