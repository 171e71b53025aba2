// Package roster tracks staff candidates between the application and
// interview stages. All operations are admin gated at the command surface.
package roster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/internal/metrics"
	"github.com/dsemenov-dev/dutymeter/internal/settings"
	"github.com/dsemenov-dev/dutymeter/pkg/log"
)

var ErrStaffRoleNotConfigured = errors.New("no staff role is configured for this guild")

const (
	acceptedMessage = "You have been accepted to the interview stage."
	callUpMessage   = "Please join the waiting room channel."
)

type Roster struct {
	repository domain.RosterRepository
	settings   settings.Settings
	platform   domain.Platform
}

func NewRoster(repository domain.RosterRepository, guildSettings settings.Settings, platform domain.Platform) Roster {
	return Roster{repository: repository, settings: guildSettings, platform: platform}
}

// Accept adds a candidate and tells them by DM. An undeliverable DM is logged
// and absorbed, the candidate stays on the roster either way.
func (r Roster) Accept(ctx context.Context, guildID string, memberID string) error {
	if errAdd := r.repository.Add(ctx, guildID, memberID); errAdd != nil {
		return errAdd
	}

	if errSend := r.platform.SendDirectMessage(ctx, memberID, acceptedMessage); errSend != nil {
		metrics.DeliveryFailures.Inc()
		slog.Warn("Failed to notify accepted candidate",
			slog.String("member_id", memberID), log.ErrAttr(errors.Join(errSend, domain.ErrDeliveryFailed)))
	}

	return nil
}

func (r Roster) List(ctx context.Context, guildID string) ([]string, error) {
	members, errMembers := r.repository.Members(ctx, guildID)
	if errMembers != nil && !errors.Is(errMembers, database.ErrNoResult) {
		return nil, errMembers
	}

	return members, nil
}

// Promote grants the configured staff role to a member and returns the role
// ID. Fails when no staff role is configured for the guild.
func (r Roster) Promote(ctx context.Context, guildID string, memberID string) (string, error) {
	roleID, roleSet, errRole := r.settings.AdminRole(ctx, guildID)
	if errRole != nil {
		return "", errRole
	}

	if !roleSet {
		return "", ErrStaffRoleNotConfigured
	}

	if errAdd := r.platform.AddRole(ctx, guildID, memberID, roleID); errAdd != nil {
		return "", errAdd
	}

	return roleID, nil
}

// CallUp messages every candidate and clears the roster. Delivery failures are
// absorbed per member so one blocked DM cannot strand the rest.
func (r Roster) CallUp(ctx context.Context, guildID string) (int, error) {
	members, errMembers := r.List(ctx, guildID)
	if errMembers != nil {
		return 0, errMembers
	}

	for _, memberID := range members {
		if errSend := r.platform.SendDirectMessage(ctx, memberID, callUpMessage); errSend != nil {
			metrics.DeliveryFailures.Inc()
			slog.Warn("Failed to call up candidate",
				slog.String("member_id", memberID), log.ErrAttr(errors.Join(errSend, domain.ErrDeliveryFailed)))
		}
	}

	if errClear := r.repository.Clear(ctx, guildID); errClear != nil {
		return 0, errClear
	}

	return len(members), nil
}
