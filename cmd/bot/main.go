// cmd/bot/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"discord-community-bot/internal/birthdays"
	"discord-community-bot/internal/bot"
	"discord-community-bot/internal/config"
	"discord-community-bot/internal/database"
	"discord-community-bot/internal/levels"
	"discord-community-bot/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	// Open database
	db, err := database.New(cfg.DatabaseURL, cfg.DataDir)
	if err != nil {
		log.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// Leveling engine
	engine := levels.New(levels.NewGormStore(db), levels.Options{
		MinXP:    cfg.XP.MinXP,
		MaxXP:    cfg.XP.MaxXP,
		Cooldown: time.Duration(cfg.XP.CooldownSeconds) * time.Second,
	})

	birthdayStore := birthdays.NewStore(db)

	// Bot handler
	botHandler := bot.NewBotHandler(engine, birthdayStore, cfg, log)

	// Create Discord session
	discord, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Error("failed to create Discord session", "err", err)
		os.Exit(1)
	}

	botHandler.SetSession(discord)
	discord.AddHandler(botHandler.OnMessageCreate)

	// Message content is needed for prefix commands and XP tracking
	discord.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	if err := discord.Open(); err != nil {
		log.Error("failed to open Discord connection", "err", err)
		os.Exit(1)
	}
	defer discord.Close()

	// Daily birthday announcements
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Birthdays.ChannelID != "" {
		scheduler := birthdays.NewScheduler(
			birthdayStore,
			cfg.Birthdays.AnnounceHour,
			botHandler.AnnounceBirthdays,
			log,
		)
		go scheduler.Run(ctx)
	}

	log.Info("community bot is running",
		"prefix", cfg.CommandPrefix,
		"xp_range", []int{cfg.XP.MinXP, cfg.XP.MaxXP},
		"cooldown_seconds", cfg.XP.CooldownSeconds,
	)

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
}
