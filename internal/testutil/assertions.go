package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/parsascontentcorner/guildstore/internal/models"
)

// AssertChannelEqual performs a deep comparison of two GuildChannel objects.
// An empty overwrite list and a nil one are treated as equal.
func AssertChannelEqual(t *testing.T, expected, actual *models.GuildChannel) {
	t.Helper()

	if !assert.NotNil(t, actual, "channel should not be nil") {
		return
	}

	assert.Equal(t, expected.ID, actual.ID, "ID should match")
	assert.Equal(t, expected.GuildID, actual.GuildID, "GuildID should match")
	assert.Equal(t, expected.Name, actual.Name, "Name should match")
	assert.Equal(t, expected.Position, actual.Position, "Position should match")
	assert.Equal(t, expected.Type, actual.Type, "Type should match")
	assert.Equal(t, expected.CategoryID, actual.CategoryID, "CategoryID should match")
	assert.Equal(t, expected.Attributes, actual.Attributes, "Attributes should match")

	if len(expected.PermissionOverwrites) == 0 {
		assert.Empty(t, actual.PermissionOverwrites, "PermissionOverwrites should be empty")
	} else {
		assert.Equal(t, expected.PermissionOverwrites, actual.PermissionOverwrites, "PermissionOverwrites should match")
	}
}

// AssertMemberEqual performs a deep comparison of two GuildMember objects.
// JoinedAt is compared with tolerance.
func AssertMemberEqual(t *testing.T, expected, actual *models.GuildMember) {
	t.Helper()

	if !assert.NotNil(t, actual, "member should not be nil") {
		return
	}

	assert.Equal(t, expected.GuildID, actual.GuildID, "GuildID should match")
	assert.Equal(t, expected.UserID, actual.UserID, "UserID should match")
	assert.Equal(t, expected.Nickname, actual.Nickname, "Nickname should match")
	assert.ElementsMatch(t, expected.RoleIDs, actual.RoleIDs, "RoleIDs should match")

	if !expected.JoinedAt.IsZero() {
		AssertTimeAlmostEqual(t, expected.JoinedAt, actual.JoinedAt, time.Second)
	}
}

// AssertTimeAlmostEqual checks if two times are within a specified delta.
// Useful for timestamp comparisons where exact equality isn't expected.
func AssertTimeAlmostEqual(t *testing.T, expected, actual time.Time, delta time.Duration) {
	t.Helper()

	diff := expected.Sub(actual)
	if diff < 0 {
		diff = -diff
	}

	assert.True(t,
		diff <= delta,
		"Times should be within %v of each other. Expected: %v, Actual: %v, Diff: %v",
		delta, expected, actual, diff,
	)
}
