package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/parsascontentcorner/guildstore/internal/database"
	"github.com/parsascontentcorner/guildstore/internal/models"
)

// selectGuildChannels reads base rows joined with whichever sub-table the
// discriminant selects. A channel matches at most one sub-table.
const selectGuildChannels = `
	SELECT c.id, c.guild_id, c.name, c.position, c.type_id, c.category_id, c.permission_overwrite,
	       t.topic, v.bitrate, v.user_limit
	FROM guilds_channels c
	LEFT JOIN guilds_text_channels t ON c.type_id = 0 AND t.channel_id = c.id
	LEFT JOIN guilds_voice_channels v ON c.type_id = 2 AND v.channel_id = c.id
`

// GuildChannelRepository stores GuildChannel aggregates across the base,
// text and voice channel tables
type GuildChannelRepository struct {
	db Handle
}

// NewGuildChannelRepository creates a channel repository over db
func NewGuildChannelRepository(db Handle) *GuildChannelRepository {
	return &GuildChannelRepository{db: db}
}

// Save inserts or updates channel and its type-specific row in one
// transaction. guild_id and type_id are fixed by the first save; later saves
// only update name, position, permission overwrites and category. When the
// channel arrives with a different type the base row is still updated, the
// stored type's sub-table row is left alone and any other sub-table row is
// removed.
func (r *GuildChannelRepository) Save(ctx context.Context, channel *models.GuildChannel, guildID models.GuildID) error {
	if channel == nil {
		return fmt.Errorf("%w: channel is nil", ErrInvalidChannel)
	}
	if err := channel.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChannel, err)
	}
	if channel.GuildID != 0 && channel.GuildID != guildID {
		return fmt.Errorf("%w: channel %s belongs to guild %s, not %s", ErrInvalidChannel, channel.ID, channel.GuildID, guildID)
	}

	overwrites, err := channel.PermissionOverwrites.ToJSON()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChannel, err)
	}

	err = database.WithTransaction(ctx, r.db, database.ReadCommitted, func(tx *sql.Tx) error {
		storedType, err := upsertGuildChannel(ctx, tx, channel, guildID, overwrites)
		if err != nil {
			return err
		}
		return saveChannelAttributes(ctx, tx, channel, storedType)
	})
	if err != nil {
		return persistenceError("save channel", err)
	}

	return nil
}

func upsertGuildChannel(ctx context.Context, tx execer, channel *models.GuildChannel, guildID models.GuildID, overwrites string) (models.ChannelType, error) {
	query := `
		INSERT INTO guilds_channels (id, guild_id, name, position, type_id, permission_overwrite, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    position = EXCLUDED.position,
		    permission_overwrite = EXCLUDED.permission_overwrite,
		    category_id = EXCLUDED.category_id
		RETURNING type_id
	`

	categoryID := sql.NullInt64{Int64: int64(channel.CategoryID), Valid: channel.HasCategory()}

	var storedType int64
	err := tx.QueryRowContext(
		ctx,
		query,
		int64(channel.ID),
		int64(guildID),
		channel.Name,
		channel.Position,
		int64(channel.Type),
		overwrites,
		categoryID,
	).Scan(&storedType)
	if err != nil {
		return 0, persistenceError("upsert guild channel", err)
	}

	return models.ChannelType(storedType), nil
}

func saveChannelAttributes(ctx context.Context, tx execer, channel *models.GuildChannel, storedType models.ChannelType) error {
	// on a type change the stored type's row is kept untouched
	keepText := storedType == models.ChannelTypeGuildText
	keepVoice := storedType == models.ChannelTypeGuildVoice

	if storedType == channel.Type {
		keepText, keepVoice = false, false

		switch attrs := channel.Attributes.(type) {
		case models.TextAttributes:
			if attrs.Topic != "" {
				query := `
					INSERT INTO guilds_text_channels (channel_id, topic)
					VALUES ($1, $2)
					ON CONFLICT (channel_id) DO UPDATE
					SET topic = EXCLUDED.topic
				`
				if _, err := tx.ExecContext(ctx, query, int64(channel.ID), attrs.Topic); err != nil {
					return persistenceError("upsert text channel", err)
				}
				keepText = true
			}

		case models.VoiceAttributes:
			query := `
				INSERT INTO guilds_voice_channels (channel_id, bitrate, user_limit)
				VALUES ($1, $2, $3)
				ON CONFLICT (channel_id) DO UPDATE
				SET bitrate = EXCLUDED.bitrate,
				    user_limit = EXCLUDED.user_limit
			`
			if _, err := tx.ExecContext(ctx, query, int64(channel.ID), attrs.Bitrate, attrs.UserLimit); err != nil {
				return persistenceError("upsert voice channel", err)
			}
			keepVoice = true
		}
	}

	if !keepText {
		if _, err := tx.ExecContext(ctx, `DELETE FROM guilds_text_channels WHERE channel_id = $1`, int64(channel.ID)); err != nil {
			return persistenceError("delete stale text channel", err)
		}
	}
	if !keepVoice {
		if _, err := tx.ExecContext(ctx, `DELETE FROM guilds_voice_channels WHERE channel_id = $1`, int64(channel.ID)); err != nil {
			return persistenceError("delete stale voice channel", err)
		}
	}

	return nil
}

// Delete marks a channel inactive. Deleting an unknown or already inactive
// channel succeeds.
func (r *GuildChannelRepository) Delete(ctx context.Context, channelID models.ChannelID) error {
	query := `UPDATE guilds_channels SET is_active = FALSE WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, int64(channelID)); err != nil {
		return persistenceError("delete channel", err)
	}

	return nil
}

// FindByID returns the channel with its type-specific attributes. found is
// false when no row exists. Inactive channels are returned like active ones.
func (r *GuildChannelRepository) FindByID(ctx context.Context, channelID models.ChannelID) (channel *models.GuildChannel, found bool, err error) {
	rows, err := r.query(ctx, "find channel", selectGuildChannels+`WHERE c.id = $1`, int64(channelID))
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	channel, err = NewGuildChannelFromRow(rows[0])
	if err != nil {
		return nil, false, err
	}
	return channel, true, nil
}

// GetAll returns every channel of the guild, including soft-deleted ones
func (r *GuildChannelRepository) GetAll(ctx context.Context, guildID models.GuildID) (models.GuildChannelCollection, error) {
	rows, err := r.query(ctx, "list channels", selectGuildChannels+`WHERE c.guild_id = $1 ORDER BY c.position, c.id`, int64(guildID))
	if err != nil {
		return models.GuildChannelCollection{}, err
	}
	return NewGuildChannelCollectionFromRows(rows)
}

// GetAllActive returns the guild's channels that have not been deleted
func (r *GuildChannelRepository) GetAllActive(ctx context.Context, guildID models.GuildID) (models.GuildChannelCollection, error) {
	rows, err := r.query(ctx, "list active channels", selectGuildChannels+`WHERE c.guild_id = $1 AND c.is_active ORDER BY c.position, c.id`, int64(guildID))
	if err != nil {
		return models.GuildChannelCollection{}, err
	}
	return NewGuildChannelCollectionFromRows(rows)
}

// GetIDs returns the ids of every channel stored for the guild
func (r *GuildChannelRepository) GetIDs(ctx context.Context, guildID models.GuildID) ([]models.ChannelID, error) {
	query := `SELECT id FROM guilds_channels WHERE guild_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, int64(guildID))
	if err != nil {
		return nil, persistenceError("list channel ids", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []models.ChannelID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, persistenceError("scan channel id", err)
		}
		ids = append(ids, models.ChannelID(id))
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("list channel ids", err)
	}

	return ids, nil
}

func (r *GuildChannelRepository) query(ctx context.Context, op, query string, args ...any) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError(op, err)
	}
	defer func() { _ = rows.Close() }()

	result, err := ScanRows(rows)
	if err != nil {
		return nil, persistenceError(op, err)
	}
	return result, nil
}
