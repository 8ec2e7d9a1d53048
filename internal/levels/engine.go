// internal/levels/engine.go
package levels

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"discord-community-bot/internal/models"
)

// ErrInvalidID is returned when an operation receives an empty user or guild
// identifier. Nothing is touched in storage.
var ErrInvalidID = errors.New("levels: empty user or guild id")

// Sampler draws a random XP amount in [min, max] inclusive. Injectable so
// tests can use deterministic sequences.
type Sampler func(min, max int) int

func uniformSampler(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// Options tunes the engine. Zero values fall back to the defaults below.
type Options struct {
	MinXP    int
	MaxXP    int
	Cooldown time.Duration
	Sampler  Sampler
}

const (
	defaultMinXP    = 15
	defaultMaxXP    = 25
	defaultCooldown = 60 * time.Second
)

// GrantResult reports the outcome of one RecordActivity call. A cooldown
// rejection is a normal outcome: Granted is false and no error is returned.
type GrantResult struct {
	Granted   bool
	XP        int // amount granted, 0 when rejected
	OldLevel  int
	NewLevel  int
	TotalXP   int64
	LeveledUp bool
}

// Engine owns per-(user, guild) XP state. discordgo dispatches every gateway
// event on its own goroutine, so the read-modify-write in RecordActivity and
// Reset is serialized per key through striped locks; different keys do not
// block each other.
type Engine struct {
	store    Store
	minXP    int
	maxXP    int
	cooldown time.Duration
	sample   Sampler

	locks [64]sync.Mutex
}

func New(store Store, opts Options) *Engine {
	e := &Engine{
		store:    store,
		minXP:    opts.MinXP,
		maxXP:    opts.MaxXP,
		cooldown: opts.Cooldown,
		sample:   opts.Sampler,
	}
	if e.minXP <= 0 {
		e.minXP = defaultMinXP
	}
	if e.maxXP <= 0 {
		e.maxXP = defaultMaxXP
	}
	if e.maxXP < e.minXP {
		e.maxXP = e.minXP
	}
	if e.cooldown <= 0 {
		e.cooldown = defaultCooldown
	}
	if e.sample == nil {
		e.sample = uniformSampler
	}
	return e
}

func (e *Engine) lockFor(userID, guildID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(guildID))
	return &e.locks[h.Sum32()%uint32(len(e.locks))]
}

func validateKey(userID, guildID string) error {
	if userID == "" || guildID == "" {
		return ErrInvalidID
	}
	return nil
}

// RecordActivity applies one qualifying chat event. Inside the cooldown
// window it rejects silently; otherwise it grants a random XP amount,
// recomputes the level and persists the record. A persistence failure drops
// the grant, there are no retries.
func (e *Engine) RecordActivity(ctx context.Context, userID, guildID string, now time.Time) (GrantResult, error) {
	if err := validateKey(userID, guildID); err != nil {
		return GrantResult{}, err
	}

	mu := e.lockFor(userID, guildID)
	mu.Lock()
	defer mu.Unlock()

	rec, err := e.getOrCreate(ctx, userID, guildID)
	if err != nil {
		return GrantResult{}, err
	}

	// Cooldown gate, inclusive at exactly the cooldown boundary.
	if now.Unix()-rec.LastXPTime < int64(e.cooldown/time.Second) {
		return GrantResult{
			OldLevel: rec.Level,
			NewLevel: rec.Level,
			TotalXP:  rec.XP,
		}, nil
	}

	gain := e.sample(e.minXP, e.maxXP)
	oldLevel := rec.Level

	rec.XP += int64(gain)
	rec.Level = LevelForXP(rec.XP)
	rec.TotalMessages++
	rec.LastXPTime = now.Unix()
	rec.UpdatedAt = now

	if err := e.store.Save(ctx, rec); err != nil {
		return GrantResult{}, fmt.Errorf("record activity: %w", err)
	}

	return GrantResult{
		Granted:   true,
		XP:        gain,
		OldLevel:  oldLevel,
		NewLevel:  rec.Level,
		TotalXP:   rec.XP,
		LeveledUp: rec.Level > oldLevel,
	}, nil
}

func (e *Engine) getOrCreate(ctx context.Context, userID, guildID string) (*models.UserLevel, error) {
	rec, err := e.store.Find(ctx, userID, guildID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rec = &models.UserLevel{UserID: userID, GuildID: guildID}
	if err := e.store.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns the raw level record, or ErrNotFound.
func (e *Engine) Get(ctx context.Context, userID, guildID string) (*models.UserLevel, error) {
	if err := validateKey(userID, guildID); err != nil {
		return nil, err
	}
	return e.store.Find(ctx, userID, guildID)
}

// Progress reports level progress for a user, or ErrNotFound.
func (e *Engine) Progress(ctx context.Context, userID, guildID string) (Progress, error) {
	if err := validateKey(userID, guildID); err != nil {
		return Progress{}, err
	}
	rec, err := e.store.Find(ctx, userID, guildID)
	if err != nil {
		return Progress{}, err
	}
	return ProgressForXP(rec.XP, rec.Level), nil
}

// Rank returns the user's 1-indexed guild rank: one plus the number of users
// with strictly more XP. Users with equal XP share a rank value.
func (e *Engine) Rank(ctx context.Context, userID, guildID string) (int, error) {
	if err := validateKey(userID, guildID); err != nil {
		return 0, err
	}
	rec, err := e.store.Find(ctx, userID, guildID)
	if err != nil {
		return 0, err
	}
	higher, err := e.store.CountWithMoreXP(ctx, guildID, rec.XP)
	if err != nil {
		return 0, err
	}
	return int(higher) + 1, nil
}

// Leaderboard returns up to limit records for a guild ordered by XP
// descending, ties broken by level descending. A non-positive limit yields an
// empty result.
func (e *Engine) Leaderboard(ctx context.Context, guildID string, limit int) ([]models.UserLevel, error) {
	if guildID == "" {
		return nil, ErrInvalidID
	}
	if limit <= 0 {
		return nil, nil
	}
	return e.store.TopByGuild(ctx, guildID, limit)
}

// TotalUsers returns how many users have a level record in the guild.
func (e *Engine) TotalUsers(ctx context.Context, guildID string) (int64, error) {
	if guildID == "" {
		return 0, ErrInvalidID
	}
	return e.store.CountByGuild(ctx, guildID)
}

// Reset zeroes a user's XP, level and message count and clears the cooldown
// anchor, so the next message behaves exactly as for a brand-new user. The
// record is kept. Resetting a user with no record is a no-op.
func (e *Engine) Reset(ctx context.Context, userID, guildID string) error {
	if err := validateKey(userID, guildID); err != nil {
		return err
	}

	mu := e.lockFor(userID, guildID)
	mu.Lock()
	defer mu.Unlock()

	rec, err := e.store.Find(ctx, userID, guildID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	rec.XP = 0
	rec.Level = 0
	rec.TotalMessages = 0
	rec.LastXPTime = 0

	if err := e.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("reset level record: %w", err)
	}
	return nil
}
