// Package models contains the guild channel and member aggregates.
package models

import (
	"fmt"
	"strconv"
)

// Snowflake is a Discord 64-bit identifier. PostgreSQL has no unsigned
// 64-bit column type, so snowflakes are carried as int64 (Discord never
// sets the sign bit).
type Snowflake int64

// ChannelID identifies a guild channel
type ChannelID Snowflake

// GuildID identifies a guild
type GuildID Snowflake

// CategoryID identifies a category channel. The zero value means "no category".
type CategoryID Snowflake

// UserID identifies a user
type UserID Snowflake

// RoleID identifies a guild role
type RoleID Snowflake

// ParseSnowflake parses the decimal string form Discord uses on the wire
func ParseSnowflake(s string) (Snowflake, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid snowflake %q: negative value", s)
	}
	return Snowflake(v), nil
}

// ParseChannelID parses a channel snowflake
func ParseChannelID(s string) (ChannelID, error) {
	v, err := ParseSnowflake(s)
	return ChannelID(v), err
}

// ParseGuildID parses a guild snowflake
func ParseGuildID(s string) (GuildID, error) {
	v, err := ParseSnowflake(s)
	return GuildID(v), err
}

// ParseCategoryID parses a category snowflake. An empty string yields the
// zero CategoryID, matching Discord's empty parent_id.
func ParseCategoryID(s string) (CategoryID, error) {
	if s == "" {
		return 0, nil
	}
	v, err := ParseSnowflake(s)
	return CategoryID(v), err
}

// ParseUserID parses a user snowflake
func ParseUserID(s string) (UserID, error) {
	v, err := ParseSnowflake(s)
	return UserID(v), err
}

// ParseRoleID parses a role snowflake
func ParseRoleID(s string) (RoleID, error) {
	v, err := ParseSnowflake(s)
	return RoleID(v), err
}

func (s Snowflake) String() string  { return strconv.FormatInt(int64(s), 10) }
func (id ChannelID) String() string  { return Snowflake(id).String() }
func (id GuildID) String() string    { return Snowflake(id).String() }
func (id CategoryID) String() string { return Snowflake(id).String() }
func (id UserID) String() string     { return Snowflake(id).String() }
func (id RoleID) String() string     { return Snowflake(id).String() }

// IsZero reports whether the channel has no category
func (id CategoryID) IsZero() bool { return id == 0 }
