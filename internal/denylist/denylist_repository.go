package denylist

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type denyListRepository struct {
	db database.Database
}

func NewDenyListRepository(database database.Database) domain.DenyListRepository {
	return &denyListRepository{db: database}
}

// Upsert replaces any existing entry for the member.
func (r *denyListRepository) Upsert(ctx context.Context, entry domain.DenyListEntry) error {
	const query = `
		INSERT INTO denylist (guild_id, member_id, reason, created_on)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, member_id) DO UPDATE SET reason = EXCLUDED.reason, created_on = EXCLUDED.created_on`

	return database.DBErr(r.db.Exec(ctx, query, entry.GuildID, entry.MemberID, entry.Reason, entry.CreatedOn))
}

func (r *denyListRepository) Remove(ctx context.Context, guildID string, memberID string) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("denylist").
		Where(sq.Eq{"guild_id": guildID, "member_id": memberID})))
}

func (r *denyListRepository) Get(ctx context.Context, guildID string, memberID string) (domain.DenyListEntry, error) {
	var entry domain.DenyListEntry

	row, errQuery := r.db.QueryRowBuilder(ctx, r.db.
		Builder().
		Select("guild_id", "member_id", "reason", "created_on").
		From("denylist").
		Where(sq.Eq{"guild_id": guildID, "member_id": memberID}))
	if errQuery != nil {
		return entry, database.DBErr(errQuery)
	}

	if errScan := row.Scan(&entry.GuildID, &entry.MemberID, &entry.Reason, &entry.CreatedOn); errScan != nil {
		return entry, database.DBErr(errScan)
	}

	return entry, nil
}
