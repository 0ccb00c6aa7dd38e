package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OverwriteType says whether a permission overwrite targets a role or a member
type OverwriteType int

// Discord permission overwrite target types
const (
	OverwriteTypeRole   OverwriteType = 0
	OverwriteTypeMember OverwriteType = 1
)

// PermissionOverwrite grants (Allow) or revokes (Deny) permission bits for a
// role or member on a single channel.
type PermissionOverwrite struct {
	ID    Snowflake     `json:"id,string"`
	Type  OverwriteType `json:"type"`
	Allow int64         `json:"allow,string"`
	Deny  int64         `json:"deny,string"`
}

// PermissionOverwrites is the ordered overwrite list of a channel. It is
// stored as a JSON array using Discord's wire layout.
type PermissionOverwrites []PermissionOverwrite

// MarshalJSON always produces an array, never null
func (p PermissionOverwrites) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]PermissionOverwrite(p))
}

// ToJSON encodes the overwrites into their storage form
func (p PermissionOverwrites) ToJSON() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode permission overwrites: %w", err)
	}
	return string(data), nil
}

// ParsePermissionOverwrites decodes the storage form. Empty input and JSON
// null both decode to an empty list.
func ParsePermissionOverwrites(data []byte) (PermissionOverwrites, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return PermissionOverwrites{}, nil
	}

	var overwrites []PermissionOverwrite
	if err := json.Unmarshal(trimmed, &overwrites); err != nil {
		return nil, fmt.Errorf("failed to decode permission overwrites: %w", err)
	}
	if overwrites == nil {
		overwrites = []PermissionOverwrite{}
	}
	return PermissionOverwrites(overwrites), nil
}
