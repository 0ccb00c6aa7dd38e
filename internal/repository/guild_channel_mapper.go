package repository

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"

	"github.com/parsascontentcorner/guildstore/internal/models"
)

// Row is one flattened result row: column name to the raw driver value.
// lib/pq and pgx both return JSONB as []byte and TEXT as string. The mapper
// also accepts the other form and any integer width, so rows built by hand
// or by another driver map the same way.
type Row map[string]any

// ScanRows reads every remaining row of rows into a Row
func ScanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return out, nil
}

// NewGuildChannelFromRow builds a channel from one joined row. The type_id
// discriminant alone decides which attribute variant is populated; missing
// sub-table columns yield zero-valued attributes.
func NewGuildChannelFromRow(row Row) (*models.GuildChannel, error) {
	id, err := row.requiredInt("id")
	if err != nil {
		return nil, err
	}
	guildID, err := row.requiredInt("guild_id")
	if err != nil {
		return nil, err
	}
	name, err := row.requiredString("name")
	if err != nil {
		return nil, err
	}
	typeID, err := row.requiredInt("type_id")
	if err != nil {
		return nil, err
	}

	channelType := models.ChannelType(typeID)
	if !channelType.IsGuildChannel() {
		return nil, malformed("type_id", "no mapping for channel type %d", typeID)
	}

	position, _, err := row.optionalInt("position")
	if err != nil {
		return nil, err
	}
	categoryID, _, err := row.optionalInt("category_id")
	if err != nil {
		return nil, err
	}

	overwrites := models.PermissionOverwrites{}
	if raw, ok, err := row.optionalBytes("permission_overwrite"); err != nil {
		return nil, err
	} else if ok {
		overwrites, err = models.ParsePermissionOverwrites(raw)
		if err != nil {
			return nil, malformed("permission_overwrite", "%v", err)
		}
	}

	channel := &models.GuildChannel{
		ID:                   models.ChannelID(id),
		GuildID:              models.GuildID(guildID),
		Name:                 name,
		Position:             int(position),
		Type:                 channelType,
		CategoryID:           models.CategoryID(categoryID),
		PermissionOverwrites: overwrites,
	}

	switch channelType {
	case models.ChannelTypeGuildText:
		topic, _, err := row.optionalString("topic")
		if err != nil {
			return nil, err
		}
		channel.Attributes = models.TextAttributes{Topic: topic}

	case models.ChannelTypeGuildVoice:
		bitrate, _, err := row.optionalInt("bitrate")
		if err != nil {
			return nil, err
		}
		userLimit, _, err := row.optionalInt("user_limit")
		if err != nil {
			return nil, err
		}
		channel.Attributes = models.VoiceAttributes{Bitrate: int(bitrate), UserLimit: int(userLimit)}
	}

	return channel, nil
}

// NewGuildChannelCollectionFromRows maps rows in order
func NewGuildChannelCollectionFromRows(rows []Row) (models.GuildChannelCollection, error) {
	channels := make([]*models.GuildChannel, 0, len(rows))
	for _, row := range rows {
		channel, err := NewGuildChannelFromRow(row)
		if err != nil {
			return models.GuildChannelCollection{}, err
		}
		channels = append(channels, channel)
	}
	return models.NewGuildChannelCollection(channels...), nil
}

func (r Row) requiredInt(column string) (int64, error) {
	v, ok, err := r.optionalInt(column)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, malformed(column, "required column is missing")
	}
	return v, nil
}

func (r Row) requiredString(column string) (string, error) {
	v, ok, err := r.optionalString(column)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", malformed(column, "required column is missing")
	}
	return v, nil
}

// optionalInt reports ok=false for an absent or NULL column
func (r Row) optionalInt(column string) (int64, bool, error) {
	raw, present := r[column]
	if !present || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case int64:
		return v, true, nil
	case int32:
		return int64(v), true, nil
	case int16:
		return int64(v), true, nil
	case int:
		return int64(v), true, nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return 0, false, malformed(column, "%v is not an integer", v)
		}
		return int64(v), true, nil
	case []byte:
		return parseIntColumn(column, string(v))
	case string:
		return parseIntColumn(column, v)
	}

	return 0, false, malformed(column, "unexpected %T value", raw)
}

func parseIntColumn(column, s string) (int64, bool, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, malformed(column, "%q is not an integer", s)
	}
	return n, true, nil
}

func (r Row) optionalString(column string) (string, bool, error) {
	raw, present := r[column]
	if !present || raw == nil {
		return "", false, nil
	}

	switch v := raw.(type) {
	case string:
		return v, true, nil
	case []byte:
		return string(v), true, nil
	}

	return "", false, malformed(column, "unexpected %T value", raw)
}

func (r Row) optionalBytes(column string) ([]byte, bool, error) {
	raw, present := r[column]
	if !present || raw == nil {
		return nil, false, nil
	}

	switch v := raw.(type) {
	case []byte:
		return v, true, nil
	case string:
		return []byte(v), true, nil
	}

	return nil, false, malformed(column, "unexpected %T value", raw)
}
