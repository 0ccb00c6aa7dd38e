package testutil

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/parsascontentcorner/guildstore/internal/config"
	"github.com/parsascontentcorner/guildstore/internal/models"
)

// GenerateSnowflake returns a random positive snowflake
func GenerateSnowflake() models.Snowflake {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("failed to generate snowflake: %v", err))
	}
	return models.Snowflake(binary.BigEndian.Uint64(b[:])>>2 + 1)
}

// GenerateTextChannel creates a text channel with a random id in guildID
func GenerateTextChannel(guildID models.GuildID, topic string) *models.GuildChannel {
	id := models.ChannelID(GenerateSnowflake())
	return models.NewTextChannel(id, guildID, fmt.Sprintf("text-%s", id), 0, topic)
}

// GenerateVoiceChannel creates a voice channel with a random id in guildID
func GenerateVoiceChannel(guildID models.GuildID, bitrate, userLimit int) *models.GuildChannel {
	id := models.ChannelID(GenerateSnowflake())
	return models.NewVoiceChannel(id, guildID, fmt.Sprintf("voice-%s", id), 0, bitrate, userLimit)
}

// GenerateCategory creates a category channel with a random id in guildID
func GenerateCategory(guildID models.GuildID) *models.GuildChannel {
	id := models.ChannelID(GenerateSnowflake())
	return models.NewGuildChannel(id, guildID, fmt.Sprintf("category-%s", id), 0, models.ChannelTypeGuildCategory)
}

// GenerateOverwrites creates one role and one member overwrite
func GenerateOverwrites() models.PermissionOverwrites {
	return models.PermissionOverwrites{
		{ID: GenerateSnowflake(), Type: models.OverwriteTypeRole, Allow: 1024, Deny: 2048},
		{ID: GenerateSnowflake(), Type: models.OverwriteTypeMember, Allow: 0, Deny: 1 << 40},
	}
}

// GenerateMember creates a member of guildID with two roles.
// JoinedAt is truncated to microseconds, the storage precision.
func GenerateMember(guildID models.GuildID) *models.GuildMember {
	userID := models.UserID(GenerateSnowflake())
	return &models.GuildMember{
		GuildID:  guildID,
		UserID:   userID,
		Nickname: fmt.Sprintf("member_%s", userID),
		RoleIDs: []models.RoleID{
			models.RoleID(GenerateSnowflake()),
			models.RoleID(GenerateSnowflake()),
		},
		JoinedAt: time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Microsecond),
	}
}

// GenerateTestConfig creates a test configuration with valid values.
func GenerateTestConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:          config.DriverPQ,
			Host:            "localhost",
			Port:            "5432",
			User:            "testuser",
			Password:        "testpass",
			Name:            "testdb",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
		},
		Discord: config.DiscordConfig{
			BotToken:    "test_bot_token",
			SyncMembers: true,
		},
		Logging: config.LoggingConfig{
			Level:  "debug",
			Format: "console",
		},
	}
}
