package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsascontentcorner/guildstore/internal/models"
)

func TestChannelFromDiscord_Text(t *testing.T) {
	c := &discordgo.Channel{
		ID:       "100",
		GuildID:  "1",
		Name:     "general",
		Topic:    "chat",
		Type:     discordgo.ChannelTypeGuildText,
		Position: 3,
		ParentID: "300",
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "42", Type: discordgo.PermissionOverwriteTypeRole, Allow: 1024},
			{ID: "7", Type: discordgo.PermissionOverwriteTypeMember, Deny: 8},
		},
	}

	channel, err := ChannelFromDiscord(c)

	require.NoError(t, err)
	require.NoError(t, channel.Validate())
	assert.Equal(t, models.ChannelID(100), channel.ID)
	assert.Equal(t, models.GuildID(1), channel.GuildID)
	assert.Equal(t, 3, channel.Position)
	assert.Equal(t, models.CategoryID(300), channel.CategoryID)
	assert.Equal(t, models.TextAttributes{Topic: "chat"}, channel.Attributes)
	assert.Equal(t, models.PermissionOverwrites{
		{ID: 42, Type: models.OverwriteTypeRole, Allow: 1024},
		{ID: 7, Type: models.OverwriteTypeMember, Deny: 8},
	}, channel.PermissionOverwrites)
}

func TestChannelFromDiscord_Voice(t *testing.T) {
	c := &discordgo.Channel{
		ID:        "200",
		GuildID:   "1",
		Name:      "Lounge",
		Type:      discordgo.ChannelTypeGuildVoice,
		Bitrate:   64000,
		UserLimit: 10,
		Topic:     "ignored",
	}

	channel, err := ChannelFromDiscord(c)

	require.NoError(t, err)
	assert.Equal(t, models.VoiceAttributes{Bitrate: 64000, UserLimit: 10}, channel.Attributes)
	assert.False(t, channel.HasCategory())
	assert.NotNil(t, channel.PermissionOverwrites)
}

func TestChannelFromDiscord_Category(t *testing.T) {
	channel, err := ChannelFromDiscord(&discordgo.Channel{
		ID: "300", GuildID: "1", Name: "Text Channels", Type: discordgo.ChannelTypeGuildCategory,
	})

	require.NoError(t, err)
	assert.Nil(t, channel.Attributes)
	assert.NoError(t, channel.Validate())
}

func TestChannelFromDiscord_Errors(t *testing.T) {
	tests := []struct {
		name        string
		channel     *discordgo.Channel
		notGuildErr bool
	}{
		{"nil", nil, false},
		{"dm", &discordgo.Channel{ID: "1", Type: discordgo.ChannelTypeDM}, true},
		{"group dm", &discordgo.Channel{ID: "1", Type: discordgo.ChannelTypeGroupDM}, true},
		{"bad id", &discordgo.Channel{ID: "abc", GuildID: "1", Type: discordgo.ChannelTypeGuildText}, false},
		{"missing guild", &discordgo.Channel{ID: "1", Type: discordgo.ChannelTypeGuildText}, false},
		{"bad parent", &discordgo.Channel{ID: "1", GuildID: "1", ParentID: "x", Type: discordgo.ChannelTypeGuildText}, false},
		{"bad overwrite", &discordgo.Channel{
			ID: "1", GuildID: "1", Type: discordgo.ChannelTypeGuildText,
			PermissionOverwrites: []*discordgo.PermissionOverwrite{{ID: "nope"}},
		}, false},
		{"unknown overwrite type", &discordgo.Channel{
			ID: "1", GuildID: "1", Type: discordgo.ChannelTypeGuildText,
			PermissionOverwrites: []*discordgo.PermissionOverwrite{{ID: "5", Type: 9}},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, err := ChannelFromDiscord(tt.channel)

			require.Error(t, err)
			assert.Nil(t, channel)
			assert.Equal(t, tt.notGuildErr, errors.Is(err, ErrNotGuildChannel))
		})
	}
}

func TestOverwritesFromDiscord_SkipsNil(t *testing.T) {
	overwrites, err := OverwritesFromDiscord([]*discordgo.PermissionOverwrite{
		nil,
		{ID: "1", Type: discordgo.PermissionOverwriteTypeRole, Allow: 1},
	})

	require.NoError(t, err)
	assert.Len(t, overwrites, 1)
}

func TestMemberFromDiscord(t *testing.T) {
	joined := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := &discordgo.Member{
		GuildID:  "1",
		User:     &discordgo.User{ID: "42", Username: "alice"},
		Nick:     "Al",
		Roles:    []string{"10", "11"},
		JoinedAt: joined,
	}

	member, err := MemberFromDiscord("", m)

	require.NoError(t, err)
	assert.Equal(t, models.GuildID(1), member.GuildID)
	assert.Equal(t, models.UserID(42), member.UserID)
	assert.Equal(t, "Al", member.Nickname)
	assert.Equal(t, []models.RoleID{10, 11}, member.RoleIDs)
	assert.Equal(t, joined, member.JoinedAt)
}

func TestMemberFromDiscord_ExplicitGuildWins(t *testing.T) {
	member, err := MemberFromDiscord("5", &discordgo.Member{User: &discordgo.User{ID: "42"}})

	require.NoError(t, err)
	assert.Equal(t, models.GuildID(5), member.GuildID)
	assert.Empty(t, member.RoleIDs)
}

func TestMemberFromDiscord_Errors(t *testing.T) {
	_, err := MemberFromDiscord("1", nil)
	assert.Error(t, err)

	_, err = MemberFromDiscord("1", &discordgo.Member{})
	assert.Error(t, err)

	_, err = MemberFromDiscord("", &discordgo.Member{User: &discordgo.User{ID: "42"}})
	assert.Error(t, err, "no guild id anywhere")

	_, err = MemberFromDiscord("1", &discordgo.Member{User: &discordgo.User{ID: "42"}, Roles: []string{"r"}})
	assert.Error(t, err)
}
