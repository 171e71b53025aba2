package warning

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type warningRepository struct {
	db database.Database
}

func NewWarningRepository(database database.Database) domain.WarningRepository {
	return &warningRepository{db: database}
}

func (r *warningRepository) Add(ctx context.Context, warning *domain.Warning) error {
	const query = `
		INSERT INTO warning (guild_id, member_id, reason, created_on)
		VALUES ($1, $2, $3, $4)
		RETURNING warning_id`

	if errScan := r.db.
		QueryRow(ctx, query, warning.GuildID, warning.MemberID, warning.Reason, warning.CreatedOn).
		Scan(&warning.WarningID); errScan != nil {
		return database.DBErr(errScan)
	}

	return nil
}

func (r *warningRepository) List(ctx context.Context, guildID string, memberID string) ([]domain.Warning, error) {
	rows, errQuery := r.db.QueryBuilder(ctx, r.db.
		Builder().
		Select("warning_id", "guild_id", "member_id", "reason", "created_on").
		From("warning").
		Where(sq.Eq{"guild_id": guildID, "member_id": memberID}).
		OrderBy("warning_id"))
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	var warnings []domain.Warning

	for rows.Next() {
		var warning domain.Warning
		if errScan := rows.Scan(&warning.WarningID, &warning.GuildID, &warning.MemberID,
			&warning.Reason, &warning.CreatedOn); errScan != nil {
			return nil, database.DBErr(errScan)
		}

		warnings = append(warnings, warning)
	}

	return warnings, nil
}

// RemoveOne deletes exactly one matching warning when any exist. The RETURNING
// clause turns a no-match delete into ErrNoResult.
func (r *warningRepository) RemoveOne(ctx context.Context, guildID string, memberID string, reason string) error {
	const query = `
		DELETE FROM warning
		WHERE warning_id = (
			SELECT warning_id FROM warning
			WHERE guild_id = $1 AND member_id = $2 AND reason = $3
			ORDER BY warning_id
			LIMIT 1)
		RETURNING warning_id`

	var removedID int64
	if errScan := r.db.
		QueryRow(ctx, query, guildID, memberID, reason).
		Scan(&removedID); errScan != nil {
		return database.DBErr(errScan)
	}

	return nil
}

func (r *warningRepository) RemoveAll(ctx context.Context, guildID string, memberID string) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("warning").
		Where(sq.Eq{"guild_id": guildID, "member_id": memberID})))
}
