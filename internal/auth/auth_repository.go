package auth

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type modRoleRepository struct {
	db database.Database
}

func NewModRoleRepository(database database.Database) domain.ModRoleRepository {
	return &modRoleRepository{db: database}
}

func (r *modRoleRepository) Add(ctx context.Context, guildID string, roleID string) error {
	return database.DBErr(r.db.ExecInsertBuilder(ctx, r.db.
		Builder().
		Insert("moderator_role").
		Columns("guild_id", "role_id").
		Values(guildID, roleID).
		Suffix("ON CONFLICT (guild_id, role_id) DO NOTHING")))
}

func (r *modRoleRepository) Remove(ctx context.Context, guildID string, roleID string) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("moderator_role").
		Where(sq.Eq{"guild_id": guildID, "role_id": roleID})))
}

func (r *modRoleRepository) Roles(ctx context.Context, guildID string) ([]string, error) {
	rows, errQuery := r.db.QueryBuilder(ctx, r.db.
		Builder().
		Select("role_id").
		From("moderator_role").
		Where(sq.Eq{"guild_id": guildID}))
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	var roles []string

	for rows.Next() {
		var roleID string
		if errScan := rows.Scan(&roleID); errScan != nil {
			return nil, database.DBErr(errScan)
		}

		roles = append(roles, roleID)
	}

	return roles, nil
}
