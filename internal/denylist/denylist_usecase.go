// Package denylist keeps the per guild member deny-list. Adding an already
// listed member replaces the stored reason; removal is idempotent.
package denylist

import (
	"context"
	"errors"
	"time"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type DenyList struct {
	repository domain.DenyListRepository
}

func NewDenyList(repository domain.DenyListRepository) DenyList {
	return DenyList{repository: repository}
}

func (d DenyList) Add(ctx context.Context, guildID string, memberID string, reason string) error {
	return d.repository.Upsert(ctx, domain.DenyListEntry{
		GuildID:   guildID,
		MemberID:  memberID,
		Reason:    reason,
		CreatedOn: time.Now(),
	})
}

// Remove deletes the entry when present. Removing an absent member is a no-op.
func (d DenyList) Remove(ctx context.Context, guildID string, memberID string) error {
	return d.repository.Remove(ctx, guildID, memberID)
}

// Check returns the entry and whether the member is listed.
func (d DenyList) Check(ctx context.Context, guildID string, memberID string) (domain.DenyListEntry, bool, error) {
	entry, errGet := d.repository.Get(ctx, guildID, memberID)
	if errGet != nil {
		if errors.Is(errGet, database.ErrNoResult) {
			return domain.DenyListEntry{}, false, nil
		}

		return domain.DenyListEntry{}, false, errGet
	}

	return entry, true, nil
}
