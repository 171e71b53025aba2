// Package warning is the append-only warning ledger. Warnings have no
// uniqueness constraint; a member may accumulate any number of them.
package warning

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

var ErrReasonEmpty = errors.New("warning reason cannot be empty")

type Warnings struct {
	repository domain.WarningRepository
}

func NewWarnings(repository domain.WarningRepository) Warnings {
	return Warnings{repository: repository}
}

// Add appends a warning and returns it with the assigned id.
func (w Warnings) Add(ctx context.Context, guildID string, memberID string, reason string) (domain.Warning, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.Warning{}, ErrReasonEmpty
	}

	warning := domain.Warning{
		GuildID:   guildID,
		MemberID:  memberID,
		Reason:    reason,
		CreatedOn: time.Now(),
	}

	if errAdd := w.repository.Add(ctx, &warning); errAdd != nil {
		return domain.Warning{}, errAdd
	}

	return warning, nil
}

// List returns the member warnings oldest first.
func (w Warnings) List(ctx context.Context, guildID string, memberID string) ([]domain.Warning, error) {
	warnings, errList := w.repository.List(ctx, guildID, memberID)
	if errList != nil && !errors.Is(errList, database.ErrNoResult) {
		return nil, errList
	}

	return warnings, nil
}

// RemoveOne deletes at most one warning matching reason. It reports whether a
// warning was removed; no match is not an error.
func (w Warnings) RemoveOne(ctx context.Context, guildID string, memberID string, reason string) (bool, error) {
	if errRemove := w.repository.RemoveOne(ctx, guildID, memberID, reason); errRemove != nil {
		if errors.Is(errRemove, database.ErrNoResult) {
			return false, nil
		}

		return false, errRemove
	}

	return true, nil
}

func (w Warnings) RemoveAll(ctx context.Context, guildID string, memberID string) error {
	return w.repository.RemoveAll(ctx, guildID, memberID)
}
