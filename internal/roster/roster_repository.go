package roster

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type rosterRepository struct {
	db database.Database
}

func NewRosterRepository(database database.Database) domain.RosterRepository {
	return &rosterRepository{db: database}
}

func (r *rosterRepository) Add(ctx context.Context, guildID string, memberID string) error {
	return database.DBErr(r.db.ExecInsertBuilder(ctx, r.db.
		Builder().
		Insert("candidate").
		Columns("guild_id", "member_id").
		Values(guildID, memberID).
		Suffix("ON CONFLICT (guild_id, member_id) DO NOTHING")))
}

func (r *rosterRepository) Members(ctx context.Context, guildID string) ([]string, error) {
	rows, errQuery := r.db.QueryBuilder(ctx, r.db.
		Builder().
		Select("member_id").
		From("candidate").
		Where(sq.Eq{"guild_id": guildID}).
		OrderBy("created_on"))
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	var members []string

	for rows.Next() {
		var memberID string
		if errScan := rows.Scan(&memberID); errScan != nil {
			return nil, database.DBErr(errScan)
		}

		members = append(members, memberID)
	}

	return members, nil
}

func (r *rosterRepository) Clear(ctx context.Context, guildID string) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("candidate").
		Where(sq.Eq{"guild_id": guildID})))
}
