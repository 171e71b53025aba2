package settings

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type settingsRepository struct {
	db database.Database
}

func NewSettingsRepository(database database.Database) domain.SettingsRepository {
	return &settingsRepository{db: database}
}

func (r *settingsRepository) Get(ctx context.Context, guildID string, key string) (int64, error) {
	row, errQuery := r.db.QueryRowBuilder(ctx, r.db.
		Builder().
		Select("value").
		From("setting").
		Where(sq.Eq{"guild_id": guildID, "key": key}))
	if errQuery != nil {
		return 0, database.DBErr(errQuery)
	}

	var value int64
	if errScan := row.Scan(&value); errScan != nil {
		return 0, database.DBErr(errScan)
	}

	return value, nil
}

func (r *settingsRepository) Set(ctx context.Context, guildID string, key string, value int64) error {
	const query = `
		INSERT INTO setting (guild_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, key) DO UPDATE SET value = EXCLUDED.value`

	return database.DBErr(r.db.Exec(ctx, query, guildID, key, value))
}

func (r *settingsRepository) Delete(ctx context.Context, guildID string, key string) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("setting").
		Where(sq.Eq{"guild_id": guildID, "key": key})))
}
