package models

import (
	"fmt"
	"time"
)

// GuildMember represents a user's membership in a guild
type GuildMember struct {
	GuildID  GuildID   `json:"guild_id"`
	UserID   UserID    `json:"user_id"`
	Nickname string    `json:"nickname,omitempty"`
	RoleIDs  []RoleID  `json:"role_ids"`
	JoinedAt time.Time `json:"joined_at"`
}

// Validate checks the member identifiers
func (m *GuildMember) Validate() error {
	if m.GuildID == 0 {
		return fmt.Errorf("member guild id is required")
	}
	if m.UserID == 0 {
		return fmt.Errorf("member user id is required")
	}
	return nil
}

// HasRole reports whether the member holds role id
func (m *GuildMember) HasRole(id RoleID) bool {
	for _, r := range m.RoleIDs {
		if r == id {
			return true
		}
	}
	return false
}

// DisplayName returns the nickname, falling back to fallback (usually the username)
func (m *GuildMember) DisplayName(fallback string) string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return fallback
}
