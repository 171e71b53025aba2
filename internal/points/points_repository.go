package points

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type pointsRepository struct {
	db database.Database
}

func NewPointsRepository(database database.Database) domain.PointsRepository {
	return &pointsRepository{db: database}
}

// Adjust is a single statement so concurrent calls for the same member
// serialize on the row and no update is lost.
func (r *pointsRepository) Adjust(ctx context.Context, guildID string, memberID string, delta int64) (int64, error) {
	const query = `
		INSERT INTO points (guild_id, member_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, member_id) DO UPDATE SET value = points.value + EXCLUDED.value
		RETURNING value`

	var value int64
	if errScan := r.db.
		QueryRow(ctx, query, guildID, memberID, delta).
		Scan(&value); errScan != nil {
		return 0, database.DBErr(errScan)
	}

	return value, nil
}

func (r *pointsRepository) Balance(ctx context.Context, guildID string, memberID string) (int64, error) {
	row, errQuery := r.db.QueryRowBuilder(ctx, r.db.
		Builder().
		Select("value").
		From("points").
		Where(sq.Eq{"guild_id": guildID, "member_id": memberID}))
	if errQuery != nil {
		return 0, database.DBErr(errQuery)
	}

	var value int64
	if errScan := row.Scan(&value); errScan != nil {
		return 0, database.DBErr(errScan)
	}

	return value, nil
}

func (r *pointsRepository) Balances(ctx context.Context, guildID string) ([]domain.PointBalance, error) {
	rows, errQuery := r.db.QueryBuilder(ctx, r.db.
		Builder().
		Select("guild_id", "member_id", "value").
		From("points").
		Where(sq.Eq{"guild_id": guildID}).
		OrderBy("value DESC"))
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	var balances []domain.PointBalance

	for rows.Next() {
		var balance domain.PointBalance
		if errScan := rows.Scan(&balance.GuildID, &balance.MemberID, &balance.Value); errScan != nil {
			return nil, database.DBErr(errScan)
		}

		balances = append(balances, balance)
	}

	return balances, nil
}

// ResetGuild zeroes every balance in the guild. Rows are kept, not deleted.
func (r *pointsRepository) ResetGuild(ctx context.Context, guildID string) error {
	return database.DBErr(r.db.ExecUpdateBuilder(ctx, r.db.
		Builder().
		Update("points").
		Set("value", 0).
		Where(sq.Eq{"guild_id": guildID})))
}
