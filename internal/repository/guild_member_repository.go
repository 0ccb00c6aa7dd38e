package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/parsascontentcorner/guildstore/internal/models"
)

// GuildMemberRepository stores guild memberships
type GuildMemberRepository struct {
	db Handle
}

// NewGuildMemberRepository creates a member repository over db
func NewGuildMemberRepository(db Handle) *GuildMemberRepository {
	return &GuildMemberRepository{db: db}
}

// Save inserts or updates a membership and marks it active again. A zero
// JoinedAt keeps the stored value, or NOW() for a new row.
func (r *GuildMemberRepository) Save(ctx context.Context, member *models.GuildMember) error {
	if member == nil {
		return fmt.Errorf("%w: member is nil", ErrInvalidMember)
	}
	if err := member.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMember, err)
	}

	query := `
		INSERT INTO guilds_members (guild_id, user_id, nickname, role_ids, joined_at, is_active)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), TRUE)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET nickname = EXCLUDED.nickname,
		    role_ids = EXCLUDED.role_ids,
		    joined_at = COALESCE($5, guilds_members.joined_at),
		    is_active = TRUE
	`

	nickname := sql.NullString{String: member.Nickname, Valid: member.Nickname != ""}
	joinedAt := sql.NullTime{Time: member.JoinedAt, Valid: !member.JoinedAt.IsZero()}

	_, err := r.db.ExecContext(
		ctx,
		query,
		int64(member.GuildID),
		int64(member.UserID),
		nickname,
		roleArray(member.RoleIDs),
		joinedAt,
	)
	if err != nil {
		return persistenceError("save member", err)
	}

	return nil
}

// FindByID returns a membership, active or not
func (r *GuildMemberRepository) FindByID(ctx context.Context, guildID models.GuildID, userID models.UserID) (*models.GuildMember, bool, error) {
	query := `
		SELECT guild_id, user_id, nickname, role_ids, joined_at
		FROM guilds_members
		WHERE guild_id = $1 AND user_id = $2
	`

	member, err := scanMember(r.db.QueryRowContext(ctx, query, int64(guildID), int64(userID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, persistenceError("find member", err)
	}

	return member, true, nil
}

// GetAll returns the active members of a guild ordered by user id
func (r *GuildMemberRepository) GetAll(ctx context.Context, guildID models.GuildID) (models.GuildMemberCollection, error) {
	query := `
		SELECT guild_id, user_id, nickname, role_ids, joined_at
		FROM guilds_members
		WHERE guild_id = $1 AND is_active
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query, int64(guildID))
	if err != nil {
		return models.GuildMemberCollection{}, persistenceError("list members", err)
	}
	defer func() { _ = rows.Close() }()

	var members []*models.GuildMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return models.GuildMemberCollection{}, persistenceError("scan member", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return models.GuildMemberCollection{}, persistenceError("list members", err)
	}

	return models.NewGuildMemberCollection(members...), nil
}

// Delete marks a membership inactive. Unknown memberships are not an error.
func (r *GuildMemberRepository) Delete(ctx context.Context, guildID models.GuildID, userID models.UserID) error {
	query := `UPDATE guilds_members SET is_active = FALSE WHERE guild_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, int64(guildID), int64(userID)); err != nil {
		return persistenceError("delete member", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(s rowScanner) (*models.GuildMember, error) {
	var (
		guildID, userID int64
		nickname        sql.NullString
		roles           pq.Int64Array
		member          models.GuildMember
	)

	if err := s.Scan(&guildID, &userID, &nickname, &roles, &member.JoinedAt); err != nil {
		return nil, err
	}

	member.GuildID = models.GuildID(guildID)
	member.UserID = models.UserID(userID)
	member.Nickname = nickname.String
	member.RoleIDs = make([]models.RoleID, len(roles))
	for i, id := range roles {
		member.RoleIDs[i] = models.RoleID(id)
	}

	return &member, nil
}

func roleArray(ids []models.RoleID) pq.Int64Array {
	out := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
