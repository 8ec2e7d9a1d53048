// internal/bot/handler.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-community-bot/internal/birthdays"
	"discord-community-bot/internal/config"
	"discord-community-bot/internal/levels"
	"discord-community-bot/internal/models"
)

const (
	colorGold = 0xFFD700
	colorBlue = 0x5865F2
	colorRed  = 0xFF6B6B
)

type BotHandler struct {
	engine    *levels.Engine
	birthdays *birthdays.Store
	session   *discordgo.Session
	log       *slog.Logger
	botID     string

	prefix          string
	levelUpMessages bool
	birthdayChannel string
}

func NewBotHandler(engine *levels.Engine, bdays *birthdays.Store, cfg *config.Config, log *slog.Logger) *BotHandler {
	return &BotHandler{
		engine:          engine,
		birthdays:       bdays,
		log:             log,
		prefix:          cfg.CommandPrefix,
		levelUpMessages: cfg.XP.LevelUpMessages,
		birthdayChannel: cfg.Birthdays.ChannelID,
	}
}

func (h *BotHandler) SetSession(s *discordgo.Session) {
	h.session = s
	user, err := s.User("@me")
	if err != nil {
		h.log.Error("failed to get bot user", "err", err)
		return
	}
	h.botID = user.ID
}

// OnMessageCreate is the activity feed: every qualifying guild message earns
// cooldown-gated XP. Bot-authored messages, DMs and command invocations never
// reach the engine.
func (h *BotHandler) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore bot messages
	if m.Author.Bot || m.Author.ID == h.botID {
		return
	}

	// Ignore DMs
	if m.GuildID == "" {
		return
	}

	// Prefix commands are handled, slash invocations just skipped
	if strings.HasPrefix(m.Content, h.prefix) {
		h.handleCommand(s, m)
		return
	}
	if strings.HasPrefix(m.Content, "/") {
		return
	}

	ctx := context.Background()
	res, err := h.engine.RecordActivity(ctx, m.Author.ID, m.GuildID, time.Now())
	if err != nil {
		// Dropping one grant is fine, the user's next message will earn again
		h.log.Warn("xp grant dropped", "user", m.Author.ID, "guild", m.GuildID, "err", err)
		return
	}

	if res.Granted && res.LeveledUp && h.levelUpMessages {
		h.sendLevelUp(s, m, res.NewLevel)
	}
}

func (h *BotHandler) sendLevelUp(s *discordgo.Session, m *discordgo.MessageCreate, newLevel int) {
	embed := &discordgo.MessageEmbed{
		Color:       colorGold,
		Title:       "🎉 Level Up!",
		Description: fmt.Sprintf("Congratulations <@%s>! You've reached **Level %d**!", m.Author.ID, newLevel),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Keep chatting to level up!"},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		h.log.Warn("failed to send level up message", "err", err)
	}
}

func (h *BotHandler) handleCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	fields := strings.Fields(strings.TrimPrefix(m.Content, h.prefix))
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "rank":
		h.handleRank(s, m)
	case "leaderboard", "top":
		h.handleLeaderboard(s, m, fields[1:])
	case "resetrank":
		h.handleResetRank(s, m)
	case "setbirthday":
		h.handleSetBirthday(s, m, fields[1:])
	case "birthday":
		h.handleBirthday(s, m)
	case "help":
		h.handleHelp(s, m)
	}
}

// handleRank answers "!rank" for the author, or a mentioned user.
func (h *BotHandler) handleRank(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := context.Background()

	target := m.Author
	if len(m.Mentions) > 0 {
		target = m.Mentions[0]
	}

	rec, err := h.engine.Get(ctx, target.ID, m.GuildID)
	if errors.Is(err, levels.ErrNotFound) || (err == nil && rec.XP == 0) {
		h.sendNotice(s, m.ChannelID, colorRed,
			fmt.Sprintf("<@%s> hasn't earned any XP yet! Start chatting to gain levels.", target.ID))
		return
	}
	if err != nil {
		h.replyError(s, m.ChannelID, err)
		return
	}

	rank, err := h.engine.Rank(ctx, target.ID, m.GuildID)
	if err != nil {
		h.replyError(s, m.ChannelID, err)
		return
	}
	total, err := h.engine.TotalUsers(ctx, m.GuildID)
	if err != nil {
		h.replyError(s, m.ChannelID, err)
		return
	}
	progress, err := h.engine.Progress(ctx, target.ID, m.GuildID)
	if err != nil {
		h.replyError(s, m.ChannelID, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Color: colorBlue,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s's Rank", target.Username),
			IconURL: target.AvatarURL("64"),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📊 Rank", Value: fmt.Sprintf("**#%d** / %d", rank, total), Inline: true},
			{Name: "⭐ Level", Value: fmt.Sprintf("**%d**", rec.Level), Inline: true},
			{Name: "💬 Messages", Value: fmt.Sprintf("**%d**", rec.TotalMessages), Inline: true},
			{Name: "✨ Total XP", Value: fmt.Sprintf("**%d** XP", rec.XP)},
			{
				Name: fmt.Sprintf("📈 Progress to Level %d", rec.Level+1),
				Value: fmt.Sprintf("%s\n**%d** / **%d** XP",
					progressBar(progress.Percentage, 15), progress.IntoLevel, progress.Needed),
			},
		},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		h.log.Warn("failed to send rank card", "err", err)
	}
}

// handleLeaderboard answers "!leaderboard [limit]".
func (h *BotHandler) handleLeaderboard(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	limit := 10
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 && n <= 25 {
			limit = n
		}
	}

	top, err := h.engine.Leaderboard(context.Background(), m.GuildID, limit)
	if err != nil {
		h.replyError(s, m.ChannelID, err)
		return
	}
	if len(top) == 0 {
		h.sendNotice(s, m.ChannelID, colorRed,
			"No users have earned XP yet! Start chatting to appear on the leaderboard.")
		return
	}

	var b strings.Builder
	for i, rec := range top {
		position := i + 1
		fmt.Fprintf(&b, "%s **#%d** • <@%s>\n", rankEmoji(position), position, rec.UserID)
		fmt.Fprintf(&b, "└ Level **%d** • **%d** XP • %d messages\n\n", rec.Level, rec.XP, rec.TotalMessages)
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorGold,
		Title:       "🏆 Server Leaderboard",
		Description: b.String(),
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		h.log.Warn("failed to send leaderboard", "err", err)
	}
}

// handleResetRank answers "!resetrank @user"; requires Manage Server.
func (h *BotHandler) handleResetRank(s *discordgo.Session, m *discordgo.MessageCreate) {
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || perms&discordgo.PermissionManageServer == 0 {
		h.sendNotice(s, m.ChannelID, colorRed, "You need the **Manage Server** permission to reset ranks.")
		return
	}
	if len(m.Mentions) == 0 {
		h.sendNotice(s, m.ChannelID, colorRed, "Mention the user to reset, e.g. `"+h.prefix+"resetrank @user`.")
		return
	}

	target := m.Mentions[0]
	if err := h.engine.Reset(context.Background(), target.ID, m.GuildID); err != nil {
		h.replyError(s, m.ChannelID, err)
		return
	}
	h.sendNotice(s, m.ChannelID, colorBlue, fmt.Sprintf("Reset XP and level for <@%s>.", target.ID))
}

func (h *BotHandler) handleSetBirthday(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		h.sendNotice(s, m.ChannelID, colorRed,
			"Usage: `"+h.prefix+"setbirthday YYYY-MM-DD` (or `MM-DD`).")
		return
	}

	err := h.birthdays.Set(context.Background(), m.Author.ID, args[0])
	if errors.Is(err, birthdays.ErrInvalidDate) {
		h.sendNotice(s, m.ChannelID, colorRed, "That doesn't look like a date. Use `YYYY-MM-DD` or `MM-DD`.")
		return
	}
	if err != nil {
		h.replyError(s, m.ChannelID, err)
		return
	}
	h.sendNotice(s, m.ChannelID, colorBlue, "🎂 Birthday saved!")
}

func (h *BotHandler) handleBirthday(s *discordgo.Session, m *discordgo.MessageCreate) {
	target := m.Author
	if len(m.Mentions) > 0 {
		target = m.Mentions[0]
	}

	rec, err := h.birthdays.Get(context.Background(), target.ID)
	if errors.Is(err, birthdays.ErrNotFound) {
		h.sendNotice(s, m.ChannelID, colorRed,
			fmt.Sprintf("<@%s> has no birthday set. Use `%ssetbirthday`.", target.ID, h.prefix))
		return
	}
	if err != nil {
		h.replyError(s, m.ChannelID, err)
		return
	}
	h.sendNotice(s, m.ChannelID, colorBlue, fmt.Sprintf("🎂 <@%s>'s birthday: **%s**", target.ID, rec.Date))
}

func (h *BotHandler) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	p := h.prefix
	embed := &discordgo.MessageEmbed{
		Color: colorBlue,
		Title: "Commands",
		Description: strings.Join([]string{
			"`" + p + "rank [@user]` — level, XP and rank",
			"`" + p + "leaderboard [n]` — top members",
			"`" + p + "resetrank @user` — reset a member (Manage Server)",
			"`" + p + "setbirthday <date>` — save your birthday",
			"`" + p + "birthday [@user]` — show a birthday",
		}, "\n"),
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		h.log.Warn("failed to send help", "err", err)
	}
}

// AnnounceBirthdays posts the daily birthday message; wired into the
// scheduler from main.
func (h *BotHandler) AnnounceBirthdays(bdays []models.Birthday) {
	if h.session == nil || h.birthdayChannel == "" {
		return
	}

	mentions := make([]string, 0, len(bdays))
	for _, b := range bdays {
		mentions = append(mentions, "<@"+b.UserID+">")
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorGold,
		Title:       "🎂 Happy Birthday!",
		Description: "Everyone wish " + strings.Join(mentions, ", ") + " a happy birthday!",
	}
	if _, err := h.session.ChannelMessageSendEmbed(h.birthdayChannel, embed); err != nil {
		h.log.Error("failed to send birthday announcement", "err", err)
	}
}

func (h *BotHandler) sendNotice(s *discordgo.Session, channelID string, color int, text string) {
	embed := &discordgo.MessageEmbed{Color: color, Description: text}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		h.log.Warn("failed to send message", "err", err)
	}
}

func (h *BotHandler) replyError(s *discordgo.Session, channelID string, err error) {
	h.log.Error("command failed", "err", err)
	h.sendNotice(s, channelID, colorRed, "Something went wrong, try again later.")
}

// progressBar renders [████░░░░░░] 40%
func progressBar(percentage, length int) string {
	filled := percentage * length / 100
	if filled > length {
		filled = length
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
	return fmt.Sprintf("[%s] %d%%", bar, percentage)
}

func rankEmoji(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return "📊"
	}
}
