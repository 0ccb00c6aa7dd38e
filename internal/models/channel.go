package models

import (
	"errors"
	"fmt"
)

// ChannelType represents Discord channel types
type ChannelType int

// Discord channel type constants
const (
	ChannelTypeGuildText          ChannelType = 0
	ChannelTypeDM                 ChannelType = 1
	ChannelTypeGuildVoice         ChannelType = 2
	ChannelTypeGroupDM            ChannelType = 3
	ChannelTypeGuildCategory      ChannelType = 4
	ChannelTypeGuildNews          ChannelType = 5
	ChannelTypeGuildStore         ChannelType = 6
	ChannelTypeGuildNewsThread    ChannelType = 10
	ChannelTypeGuildPublicThread  ChannelType = 11
	ChannelTypeGuildPrivateThread ChannelType = 12
	ChannelTypeGuildStageVoice    ChannelType = 13
	ChannelTypeGuildDirectory     ChannelType = 14
	ChannelTypeGuildForum         ChannelType = 15
	ChannelTypeGuildMedia         ChannelType = 16
)

// Known reports whether t is a channel type Discord defines
func (t ChannelType) Known() bool {
	switch t {
	case ChannelTypeGuildText, ChannelTypeDM, ChannelTypeGuildVoice, ChannelTypeGroupDM,
		ChannelTypeGuildCategory, ChannelTypeGuildNews, ChannelTypeGuildStore,
		ChannelTypeGuildNewsThread, ChannelTypeGuildPublicThread, ChannelTypeGuildPrivateThread,
		ChannelTypeGuildStageVoice, ChannelTypeGuildDirectory, ChannelTypeGuildForum,
		ChannelTypeGuildMedia:
		return true
	}
	return false
}

// IsGuildChannel reports whether channels of this type belong to a guild
func (t ChannelType) IsGuildChannel() bool {
	return t.Known() && t != ChannelTypeDM && t != ChannelTypeGroupDM
}

func (t ChannelType) String() string {
	switch t {
	case ChannelTypeGuildText:
		return "text"
	case ChannelTypeGuildVoice:
		return "voice"
	case ChannelTypeGuildCategory:
		return "category"
	case ChannelTypeGuildNews:
		return "news"
	case ChannelTypeGuildStageVoice:
		return "stage"
	case ChannelTypeGuildForum:
		return "forum"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ChannelAttributes holds the data that only exists for one channel type.
// The set of implementations is closed: TextAttributes and VoiceAttributes.
type ChannelAttributes interface {
	ChannelType() ChannelType
	isChannelAttributes()
}

// TextAttributes are the text-channel specific attributes
type TextAttributes struct {
	Topic string `json:"topic,omitempty"`
}

// VoiceAttributes are the voice-channel specific attributes
type VoiceAttributes struct {
	Bitrate   int `json:"bitrate"`
	UserLimit int `json:"user_limit"`
}

func (TextAttributes) ChannelType() ChannelType  { return ChannelTypeGuildText }
func (VoiceAttributes) ChannelType() ChannelType { return ChannelTypeGuildVoice }
func (TextAttributes) isChannelAttributes()      {}
func (VoiceAttributes) isChannelAttributes()     {}

// ErrAttributesMismatch is returned by Validate when Attributes do not match Type
var ErrAttributesMismatch = errors.New("channel attributes do not match channel type")

// GuildChannel is the channel aggregate. ID, GuildID and Type are fixed once
// the channel is first persisted.
type GuildChannel struct {
	ID                   ChannelID            `json:"id"`
	GuildID              GuildID              `json:"guild_id"`
	Name                 string               `json:"name"`
	Position             int                  `json:"position"`
	Type                 ChannelType          `json:"type"`
	CategoryID           CategoryID           `json:"category_id,omitempty"`
	PermissionOverwrites PermissionOverwrites `json:"permission_overwrites"`
	Attributes           ChannelAttributes    `json:"attributes,omitempty"`
}

// NewTextChannel builds a text channel
func NewTextChannel(id ChannelID, guildID GuildID, name string, position int, topic string) *GuildChannel {
	return &GuildChannel{
		ID:                   id,
		GuildID:              guildID,
		Name:                 name,
		Position:             position,
		Type:                 ChannelTypeGuildText,
		PermissionOverwrites: PermissionOverwrites{},
		Attributes:           TextAttributes{Topic: topic},
	}
}

// NewVoiceChannel builds a voice channel
func NewVoiceChannel(id ChannelID, guildID GuildID, name string, position, bitrate, userLimit int) *GuildChannel {
	return &GuildChannel{
		ID:                   id,
		GuildID:              guildID,
		Name:                 name,
		Position:             position,
		Type:                 ChannelTypeGuildVoice,
		PermissionOverwrites: PermissionOverwrites{},
		Attributes:           VoiceAttributes{Bitrate: bitrate, UserLimit: userLimit},
	}
}

// NewGuildChannel builds a channel of any type, picking the attribute
// variant the type requires.
func NewGuildChannel(id ChannelID, guildID GuildID, name string, position int, channelType ChannelType) *GuildChannel {
	c := &GuildChannel{
		ID:                   id,
		GuildID:              guildID,
		Name:                 name,
		Position:             position,
		Type:                 channelType,
		PermissionOverwrites: PermissionOverwrites{},
	}
	c.Attributes = DefaultAttributes(channelType)
	return c
}

// DefaultAttributes returns the zero attribute variant for a channel type, or
// nil when the type carries none.
func DefaultAttributes(t ChannelType) ChannelAttributes {
	switch t {
	case ChannelTypeGuildText:
		return TextAttributes{}
	case ChannelTypeGuildVoice:
		return VoiceAttributes{}
	}
	return nil
}

// Validate checks the aggregate invariants that do not need storage
func (c *GuildChannel) Validate() error {
	if c.ID == 0 {
		return fmt.Errorf("channel id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("channel %s: name is required", c.ID)
	}
	if !c.Type.IsGuildChannel() {
		return fmt.Errorf("channel %s: %s is not a guild channel type", c.ID, c.Type)
	}

	switch c.Type {
	case ChannelTypeGuildText, ChannelTypeGuildVoice:
		if c.Attributes == nil || c.Attributes.ChannelType() != c.Type {
			return fmt.Errorf("channel %s (%s): %w", c.ID, c.Type, ErrAttributesMismatch)
		}
	default:
		if c.Attributes != nil {
			return fmt.Errorf("channel %s (%s): %w", c.ID, c.Type, ErrAttributesMismatch)
		}
	}

	return nil
}

// Text returns the text attributes when this is a text channel
func (c *GuildChannel) Text() (TextAttributes, bool) {
	attrs, ok := c.Attributes.(TextAttributes)
	return attrs, ok
}

// Voice returns the voice attributes when this is a voice channel
func (c *GuildChannel) Voice() (VoiceAttributes, bool) {
	attrs, ok := c.Attributes.(VoiceAttributes)
	return attrs, ok
}

// Topic returns the text channel topic, empty for every other type
func (c *GuildChannel) Topic() string {
	attrs, _ := c.Text()
	return attrs.Topic
}

// HasCategory reports whether the channel is nested under a category
func (c *GuildChannel) HasCategory() bool {
	return !c.CategoryID.IsZero()
}
