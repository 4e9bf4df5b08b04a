package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/soren-hale/albumchain/internal/storage"
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "setchannel",
		Description: "Set the channel the game runs in (clears previous data)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "The channel the bot should listen in",
				Required:    true,
			},
		},
	},
	{Name: "user-stats", Description: "Get your answer stats"},
	{Name: "server-stats", Description: "Show this server's game progress"},
	{Name: "leaderboard", Description: "Top channels by high score"},
	{Name: "help", Description: "How the album chain works"},
}

func (b *Bot) registerCommands() error {
	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("register /%s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	ctx := context.Background()

	var content string
	switch data.Name {
	case "setchannel":
		content = b.handleSetChannel(ctx, s, i, data)
	case "user-stats":
		content = b.handleUserStats(ctx, i)
	case "server-stats":
		content = b.handleServerStats(ctx, i)
	case "leaderboard":
		content = b.handleLeaderboard(ctx)
	case "help":
		content = helpMessage(b.catalog.Names())
	default:
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		b.log.WithError(err).WithField("command", data.Name).Warn("failed to respond to interaction")
	}
}

func (b *Bot) handleSetChannel(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) string {
	channel := data.Options[0].ChannelValue(s)
	if channel == nil {
		return "That channel could not be resolved."
	}
	if err := b.store.RegisterChannelForGuild(ctx, i.GuildID, channel.ID); err != nil {
		b.log.WithError(err).Error("channel registration failed")
		return "Something went wrong registering the channel, try again later."
	}
	return fmt.Sprintf("The game now runs in <#%s>. All previous data has been cleared.", channel.ID)
}

func (b *Bot) handleUserStats(ctx context.Context, i *discordgo.InteractionCreate) string {
	user := interactionUser(i)
	if user == nil {
		return "Could not tell who you are."
	}
	stats, err := b.store.UserStats(ctx, user.ID)
	if err != nil {
		b.log.WithError(err).Error("user stats lookup failed")
		return "Something went wrong fetching your stats, try again later."
	}
	return statsMessage(stats)
}

func (b *Bot) handleServerStats(ctx context.Context, i *discordgo.InteractionCreate) string {
	st, err := b.store.ChannelForGuild(ctx, i.GuildID)
	if errors.Is(err, storage.ErrChannelNotRegistered) {
		return "No game channel is registered here yet. Use /setchannel to start."
	}
	if err != nil {
		b.log.WithError(err).Error("server stats lookup failed")
		return "Something went wrong fetching the server stats, try again later."
	}
	return serverStatsMessage(st, b.catalog.Len())
}

func (b *Bot) handleLeaderboard(ctx context.Context) string {
	if b.board == nil {
		return "The leaderboard is not available."
	}
	entries, err := b.board.Top(ctx, 10)
	if err != nil {
		b.log.WithError(err).Warn("leaderboard lookup failed")
		return "The leaderboard is not available right now."
	}
	return leaderboardMessage(entries)
}

// interactionUser returns the invoking user for both guild and DM
// interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}
