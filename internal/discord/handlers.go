package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/soren-hale/albumchain/internal/storage"
)

const (
	reactCorrect = "✅"
	reactWrong   = "❌"
)

// onMessageCreate treats every human message in a registered channel as an
// answer. Messages in unregistered channels are ignored without a reply.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	text := Normalize(m.Content)
	if text == "" {
		return
	}

	ctx := context.Background()
	log := b.log.WithFields(logrus.Fields{
		"attempt": uuid.New(),
		"channel": m.ChannelID,
		"user":    m.Author.ID,
	})

	out, err := b.engine.SubmitAnswer(ctx, m.ChannelID, m.Author.ID, text)
	switch {
	case errors.Is(err, storage.ErrChannelNotRegistered):
		return
	case err != nil:
		// Storage trouble, not a player mistake. Leave the game alone and
		// make noise for the operator.
		log.WithError(err).Error("answer could not be processed")
		return
	}

	if out.Valid {
		b.react(s, m, reactCorrect, log)
		if out.CycleComplete {
			b.reply(s, m, cycleCompleteMessage(b.catalog), log)
		}
		return
	}

	b.react(s, m, reactWrong, log)
	if !out.Silent && out.Message != "" {
		b.reply(s, m, out.Message, log)
	}
}

func (b *Bot) react(s *discordgo.Session, m *discordgo.MessageCreate, emoji string, log *logrus.Entry) {
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
		log.WithError(err).Warn("failed to add reaction")
	}
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string, log *logrus.Entry) {
	if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
		log.WithError(err).Warn("failed to send message")
	}
}
