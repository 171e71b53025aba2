// Package points is the accrual engine for staff activity points. Balances
// are created lazily, may go negative and are only ever zeroed by the quota
// audit.
package points

import (
	"context"
	"errors"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/internal/metrics"
)

type Points struct {
	repository domain.PointsRepository
}

func NewPoints(repository domain.PointsRepository) Points {
	return Points{repository: repository}
}

// Adjust applies a signed delta to a member balance and returns the new value.
func (p Points) Adjust(ctx context.Context, guildID string, memberID string, delta int64) (int64, error) {
	value, errAdjust := p.repository.Adjust(ctx, guildID, memberID, delta)
	if errAdjust != nil {
		return 0, errAdjust
	}

	metrics.PointAdjustments.Inc()

	return value, nil
}

// Balance returns the member balance, zero when no row exists yet.
func (p Points) Balance(ctx context.Context, guildID string, memberID string) (int64, error) {
	value, errBalance := p.repository.Balance(ctx, guildID, memberID)
	if errBalance != nil {
		if errors.Is(errBalance, database.ErrNoResult) {
			return 0, nil
		}

		return 0, errBalance
	}

	return value, nil
}

func (p Points) Balances(ctx context.Context, guildID string) ([]domain.PointBalance, error) {
	return p.repository.Balances(ctx, guildID)
}

func (p Points) ResetGuild(ctx context.Context, guildID string) error {
	return p.repository.ResetGuild(ctx, guildID)
}
