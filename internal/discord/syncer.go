package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/guildstore/internal/database"
	"github.com/parsascontentcorner/guildstore/internal/models"
	"github.com/parsascontentcorner/guildstore/pkg/logger"
)

// ChannelStore is the channel persistence the syncer writes through
type ChannelStore interface {
	Save(ctx context.Context, channel *models.GuildChannel, guildID models.GuildID) error
	Delete(ctx context.Context, channelID models.ChannelID) error
}

// MemberStore is the member persistence the syncer writes through
type MemberStore interface {
	Save(ctx context.Context, member *models.GuildMember) error
	Delete(ctx context.Context, guildID models.GuildID, userID models.UserID) error
}

// HandlerAdder registers gateway event handlers. *discordgo.Session satisfies it.
type HandlerAdder interface {
	AddHandler(handler interface{}) func()
}

// SyncerConfig controls which events the syncer persists
type SyncerConfig struct {
	// SyncMembers enables member events
	SyncMembers bool
	// GuildIDs restricts syncing to these guilds; empty means every guild
	GuildIDs []string
	// Timeout bounds each store call
	Timeout time.Duration
}

// GuildSyncResult summarises one full guild sync
type GuildSyncResult struct {
	RunID          string
	GuildID        string
	ChannelsSaved  int
	ChannelsFailed int
	MembersSaved   int
	MembersFailed  int
}

// Syncer persists gateway channel and member events
type Syncer struct {
	channels    ChannelStore
	members     MemberStore
	logger      *zap.Logger
	syncMembers bool
	guilds      map[string]struct{}
	timeout     time.Duration
}

// NewSyncer creates a syncer writing to channels and members
func NewSyncer(channels ChannelStore, members MemberStore, cfg SyncerConfig, log *zap.Logger) *Syncer {
	guilds := make(map[string]struct{}, len(cfg.GuildIDs))
	for _, id := range cfg.GuildIDs {
		guilds[id] = struct{}{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Syncer{
		channels:    channels,
		members:     members,
		logger:      logger.Component(log, "discord-sync"),
		syncMembers: cfg.SyncMembers && members != nil,
		guilds:      guilds,
		timeout:     timeout,
	}
}

// Register adds the syncer's event handlers and returns a function removing them
func (s *Syncer) Register(adder HandlerAdder) func() {
	removers := []func(){
		adder.AddHandler(s.onGuildCreate),
		adder.AddHandler(s.onChannelCreate),
		adder.AddHandler(s.onChannelUpdate),
		adder.AddHandler(s.onChannelDelete),
	}
	if s.syncMembers {
		removers = append(removers,
			adder.AddHandler(s.onGuildMemberAdd),
			adder.AddHandler(s.onGuildMemberUpdate),
			adder.AddHandler(s.onGuildMemberRemove),
			adder.AddHandler(s.onGuildMembersChunk),
		)
	}

	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

func (s *Syncer) tracked(guildID string) bool {
	if len(s.guilds) == 0 {
		return true
	}
	_, ok := s.guilds[guildID]
	return ok
}

// SyncGuild saves every channel and, when enabled, every member the guild
// payload carries. Individual failures are logged and counted; the returned
// error joins them.
func (s *Syncer) SyncGuild(ctx context.Context, guild *discordgo.Guild) (GuildSyncResult, error) {
	result := GuildSyncResult{RunID: uuid.New().String()}
	if guild == nil {
		return result, fmt.Errorf("guild is nil")
	}
	result.GuildID = guild.ID

	log := s.logger.With(zap.String("sync_id", result.RunID), zap.String("guild_id", guild.ID))
	if !s.tracked(guild.ID) {
		log.Debug("skipping untracked guild")
		return result, nil
	}

	start := time.Now()
	var errs []error

	for _, c := range guild.Channels {
		if c.GuildID == "" {
			c.GuildID = guild.ID
		}
		err := s.SyncChannel(ctx, c)
		switch {
		case errors.Is(err, ErrNotGuildChannel):
		case err != nil:
			result.ChannelsFailed++
			errs = append(errs, err)
		default:
			result.ChannelsSaved++
		}
	}

	if s.syncMembers {
		for _, m := range guild.Members {
			if err := s.SyncMember(ctx, guild.ID, m); err != nil {
				result.MembersFailed++
				errs = append(errs, err)
				continue
			}
			result.MembersSaved++
		}
	}

	log.Info("guild synced",
		zap.Int("channels_saved", result.ChannelsSaved),
		zap.Int("channels_failed", result.ChannelsFailed),
		zap.Int("members_saved", result.MembersSaved),
		zap.Int("members_failed", result.MembersFailed),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, errors.Join(errs...)
}

// SyncChannel saves one gateway channel
func (s *Syncer) SyncChannel(ctx context.Context, c *discordgo.Channel) error {
	channel, err := ChannelFromDiscord(c)
	if err != nil {
		return err
	}

	err = s.withTimeout(ctx, func(ctx context.Context) error {
		return s.channels.Save(ctx, channel, channel.GuildID)
	})
	if err != nil {
		return fmt.Errorf("failed to save channel %s: %w", channel.ID, err)
	}
	return nil
}

// RemoveChannel soft deletes one gateway channel
func (s *Syncer) RemoveChannel(ctx context.Context, c *discordgo.Channel) error {
	id, err := models.ParseChannelID(c.ID)
	if err != nil {
		return fmt.Errorf("invalid channel id: %w", err)
	}

	err = s.withTimeout(ctx, func(ctx context.Context) error {
		return s.channels.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete channel %s: %w", id, err)
	}
	return nil
}

// SyncMember saves one gateway member of guildID
func (s *Syncer) SyncMember(ctx context.Context, guildID string, m *discordgo.Member) error {
	member, err := MemberFromDiscord(guildID, m)
	if err != nil {
		return err
	}

	err = s.withTimeout(ctx, func(ctx context.Context) error {
		return s.members.Save(ctx, member)
	})
	if err != nil {
		return fmt.Errorf("failed to save member %s: %w", member.UserID, err)
	}
	return nil
}

// RemoveMember soft deletes one gateway member
func (s *Syncer) RemoveMember(ctx context.Context, m *discordgo.Member) error {
	member, err := MemberFromDiscord("", m)
	if err != nil {
		return err
	}

	err = s.withTimeout(ctx, func(ctx context.Context) error {
		return s.members.Delete(ctx, member.GuildID, member.UserID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete member %s: %w", member.UserID, err)
	}
	return nil
}

func (s *Syncer) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}

func (s *Syncer) onGuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	result, err := s.SyncGuild(context.Background(), e.Guild)
	if err != nil {
		s.logger.Warn("guild sync finished with errors",
			zap.String("sync_id", result.RunID),
			zap.String("guild_id", result.GuildID),
			zap.Error(err),
		)
	}
}

func (s *Syncer) handleChannel(event string, c *discordgo.Channel, apply func(context.Context, *discordgo.Channel) error) {
	if c == nil || !s.tracked(c.GuildID) {
		return
	}

	ctx := context.Background()
	log := s.logger.With(zap.String("event", event), zap.String("channel_id", c.ID), zap.String("guild_id", c.GuildID))

	err := apply(ctx, c)
	switch {
	case errors.Is(err, ErrNotGuildChannel):
		log.Debug("ignoring non-guild channel")
	case database.IsConstraintViolation(err):
		log.Warn("channel rejected by schema constraint", zap.String("sqlstate", database.SQLState(err)), zap.Error(err))
	case err != nil:
		log.Error("failed to apply channel event", zap.Error(err))
	default:
		log.Debug("channel event applied")
	}
}

func (s *Syncer) onChannelCreate(_ *discordgo.Session, e *discordgo.ChannelCreate) {
	s.handleChannel("CHANNEL_CREATE", e.Channel, s.SyncChannel)
}

func (s *Syncer) onChannelUpdate(_ *discordgo.Session, e *discordgo.ChannelUpdate) {
	s.handleChannel("CHANNEL_UPDATE", e.Channel, s.SyncChannel)
}

func (s *Syncer) onChannelDelete(_ *discordgo.Session, e *discordgo.ChannelDelete) {
	s.handleChannel("CHANNEL_DELETE", e.Channel, s.RemoveChannel)
}

func (s *Syncer) handleMember(event string, m *discordgo.Member, apply func(context.Context, *discordgo.Member) error) {
	if m == nil || !s.tracked(m.GuildID) {
		return
	}

	ctx := context.Background()
	log := s.logger.With(zap.String("event", event), zap.String("guild_id", m.GuildID))
	if m.User != nil {
		log = log.With(zap.String("user_id", m.User.ID))
	}

	if err := apply(ctx, m); err != nil {
		log.Error("failed to apply member event", zap.Error(err))
		return
	}
	log.Debug("member event applied")
}

func (s *Syncer) saveMember(ctx context.Context, m *discordgo.Member) error {
	return s.SyncMember(ctx, m.GuildID, m)
}

func (s *Syncer) onGuildMemberAdd(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
	s.handleMember("GUILD_MEMBER_ADD", e.Member, s.saveMember)
}

func (s *Syncer) onGuildMemberUpdate(_ *discordgo.Session, e *discordgo.GuildMemberUpdate) {
	s.handleMember("GUILD_MEMBER_UPDATE", e.Member, s.saveMember)
}

func (s *Syncer) onGuildMemberRemove(_ *discordgo.Session, e *discordgo.GuildMemberRemove) {
	s.handleMember("GUILD_MEMBER_REMOVE", e.Member, s.RemoveMember)
}

func (s *Syncer) onGuildMembersChunk(_ *discordgo.Session, e *discordgo.GuildMembersChunk) {
	if !s.tracked(e.GuildID) {
		return
	}

	ctx := context.Background()
	saved, failed := 0, 0
	for _, m := range e.Members {
		if err := s.SyncMember(ctx, e.GuildID, m); err != nil {
			failed++
			s.logger.Error("failed to save chunked member", zap.String("guild_id", e.GuildID), zap.Error(err))
			continue
		}
		saved++
	}

	s.logger.Debug("member chunk applied",
		zap.String("guild_id", e.GuildID),
		zap.Int("chunk_index", e.ChunkIndex),
		zap.Int("saved", saved),
		zap.Int("failed", failed),
	)
}
