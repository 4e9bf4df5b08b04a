// Package discord wires the game engine to the Discord gateway: the
// message handler that feeds answers into the engine, and the slash
// commands around the game (channel registration, stats, help).
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/soren-hale/albumchain/internal/cache"
	"github.com/soren-hale/albumchain/internal/catalog"
	"github.com/soren-hale/albumchain/internal/game"
	"github.com/soren-hale/albumchain/internal/storage"
)

// Store is what the command layer needs from the repository beyond the
// engine's own contract.
type Store interface {
	RegisterChannelForGuild(ctx context.Context, guildID, channelID string) error
	ChannelForGuild(ctx context.Context, guildID string) (storage.ChannelState, error)
	UserStats(ctx context.Context, userID string) (storage.UserStats, error)
}

// Bot holds the Discord session and everything the handlers reach for.
type Bot struct {
	session *discordgo.Session
	engine  *game.Engine
	store   Store
	catalog *catalog.Catalog
	board   *cache.Leaderboard // nil disables the leaderboard command
	log     *logrus.Logger
}

// New builds the bot and registers its gateway handlers. Open must be
// called to connect.
func New(token string, eng *game.Engine, store Store, cat *catalog.Catalog, board *cache.Leaderboard, log *logrus.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	b := &Bot{
		session: session,
		engine:  eng,
		store:   store,
		catalog: cat,
		board:   board,
		log:     log,
	}
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onInteractionCreate)
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return b, nil
}

// Open connects to the gateway and registers the slash commands.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	if err := b.registerCommands(); err != nil {
		b.session.Close()
		return err
	}
	return nil
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	return b.session.Close()
}
