// Package discord keeps stored guild channels and members in step with the
// Discord gateway.
package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/parsascontentcorner/guildstore/internal/models"
)

// ErrNotGuildChannel is returned for DM and group DM channels
var ErrNotGuildChannel = errors.New("not a guild channel")

// ChannelFromDiscord converts a gateway channel into a GuildChannel
func ChannelFromDiscord(c *discordgo.Channel) (*models.GuildChannel, error) {
	if c == nil {
		return nil, fmt.Errorf("channel is nil")
	}

	channelType := models.ChannelType(c.Type)
	if !channelType.IsGuildChannel() {
		return nil, fmt.Errorf("%w: channel %s has type %s", ErrNotGuildChannel, c.ID, channelType)
	}

	id, err := models.ParseChannelID(c.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid channel id: %w", err)
	}
	guildID, err := models.ParseGuildID(c.GuildID)
	if err != nil {
		return nil, fmt.Errorf("invalid guild id for channel %s: %w", c.ID, err)
	}
	categoryID, err := models.ParseCategoryID(c.ParentID)
	if err != nil {
		return nil, fmt.Errorf("invalid parent id for channel %s: %w", c.ID, err)
	}
	overwrites, err := OverwritesFromDiscord(c.PermissionOverwrites)
	if err != nil {
		return nil, fmt.Errorf("invalid overwrites for channel %s: %w", c.ID, err)
	}

	channel := models.NewGuildChannel(id, guildID, c.Name, c.Position, channelType)
	channel.CategoryID = categoryID
	channel.PermissionOverwrites = overwrites

	switch channelType {
	case models.ChannelTypeGuildText:
		channel.Attributes = models.TextAttributes{Topic: c.Topic}
	case models.ChannelTypeGuildVoice:
		channel.Attributes = models.VoiceAttributes{Bitrate: c.Bitrate, UserLimit: c.UserLimit}
	}

	return channel, nil
}

// OverwritesFromDiscord converts gateway overwrites, keeping their order
func OverwritesFromDiscord(in []*discordgo.PermissionOverwrite) (models.PermissionOverwrites, error) {
	out := make(models.PermissionOverwrites, 0, len(in))
	for _, o := range in {
		if o == nil {
			continue
		}

		id, err := models.ParseSnowflake(o.ID)
		if err != nil {
			return nil, err
		}

		var kind models.OverwriteType
		switch o.Type {
		case discordgo.PermissionOverwriteTypeRole:
			kind = models.OverwriteTypeRole
		case discordgo.PermissionOverwriteTypeMember:
			kind = models.OverwriteTypeMember
		default:
			return nil, fmt.Errorf("unknown overwrite type %d for %s", o.Type, o.ID)
		}

		out = append(out, models.PermissionOverwrite{ID: id, Type: kind, Allow: o.Allow, Deny: o.Deny})
	}
	return out, nil
}

// MemberFromDiscord converts a gateway member of guildID. The member's own
// GuildID is used when guildID is empty.
func MemberFromDiscord(guildID string, m *discordgo.Member) (*models.GuildMember, error) {
	if m == nil || m.User == nil {
		return nil, fmt.Errorf("member has no user")
	}
	if guildID == "" {
		guildID = m.GuildID
	}

	gid, err := models.ParseGuildID(guildID)
	if err != nil {
		return nil, fmt.Errorf("invalid guild id for member %s: %w", m.User.ID, err)
	}
	uid, err := models.ParseUserID(m.User.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	roles := make([]models.RoleID, 0, len(m.Roles))
	for _, r := range m.Roles {
		id, err := models.ParseRoleID(r)
		if err != nil {
			return nil, fmt.Errorf("invalid role id for member %s: %w", m.User.ID, err)
		}
		roles = append(roles, id)
	}

	return &models.GuildMember{
		GuildID:  gid,
		UserID:   uid,
		Nickname: m.Nick,
		RoleIDs:  roles,
		JoinedAt: m.JoinedAt,
	}, nil
}
