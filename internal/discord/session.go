package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/guildstore/internal/config"
	"github.com/parsascontentcorner/guildstore/pkg/logger"
)

// Intents returns the gateway intents needed to receive the synced events
func Intents(syncMembers bool) discordgo.Intent {
	intents := discordgo.IntentsGuilds
	if syncMembers {
		intents |= discordgo.IntentsGuildMembers
	}
	return intents
}

// Session owns the gateway connection of the sync daemon
type Session struct {
	session    *discordgo.Session
	logger     *zap.Logger
	unregister func()
}

// NewSession creates an unopened gateway session and registers syncer on it
func NewSession(cfg config.DiscordConfig, syncer *Syncer, log *zap.Logger) (*Session, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = Intents(cfg.SyncMembers)

	s := &Session{
		session: dg,
		logger:  logger.Component(log, "discord-session"),
	}

	dg.AddHandler(s.onReady)
	s.unregister = syncer.Register(dg)

	return s, nil
}

func (s *Session) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	fields := []zap.Field{zap.Int("guilds", len(r.Guilds))}
	if r.User != nil {
		fields = append(fields, zap.String("user", r.User.Username))
	}
	s.logger.Info("connected to gateway", fields...)
}

// Open connects to the gateway
func (s *Session) Open() error {
	if err := s.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	s.logger.Info("gateway session opened")
	return nil
}

// Close removes the sync handlers and disconnects
func (s *Session) Close() error {
	if s.unregister != nil {
		s.unregister()
	}
	if err := s.session.Close(); err != nil {
		return fmt.Errorf("error closing connection: %w", err)
	}
	s.logger.Info("gateway session closed")
	return nil
}
