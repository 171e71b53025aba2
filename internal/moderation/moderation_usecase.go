// Package moderation ties authorization, the action ledgers, the platform
// binding and point accrual together. Every successful moderation action
// awards the acting staff member one activity point; a failed platform call
// awards nothing.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/auth"
	"github.com/dsemenov-dev/dutymeter/internal/denylist"
	"github.com/dsemenov-dev/dutymeter/internal/discord"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/internal/metrics"
	"github.com/dsemenov-dev/dutymeter/internal/points"
	"github.com/dsemenov-dev/dutymeter/internal/settings"
	"github.com/dsemenov-dev/dutymeter/internal/warning"
	"github.com/dsemenov-dev/dutymeter/pkg/log"
)

type Moderation struct {
	authorizer auth.Authorizer
	warnings   warning.Warnings
	denyList   denylist.DenyList
	points     points.Points
	settings   settings.Settings
	platform   domain.Platform
}

func NewModeration(authorizer auth.Authorizer, warnings warning.Warnings, denyList denylist.DenyList,
	pointsEngine points.Points, guildSettings settings.Settings, platform domain.Platform,
) Moderation {
	return Moderation{
		authorizer: authorizer,
		warnings:   warnings,
		denyList:   denyList,
		points:     pointsEngine,
		settings:   guildSettings,
		platform:   platform,
	}
}

// accrue awards the acting moderator one point after a committed action. The
// ledger write already succeeded, so an accrual failure is surfaced rather
// than rolled into silence.
func (m Moderation) accrue(ctx context.Context, guildID string, actorID string, kind string) error {
	if _, errAdjust := m.points.Adjust(ctx, guildID, actorID, 1); errAdjust != nil {
		slog.Error("Action recorded but point accrual failed",
			slog.String("guild_id", guildID), slog.String("actor_id", actorID),
			slog.String("kind", kind), log.ErrAttr(errAdjust))

		return errors.Join(errAdjust, domain.ErrSaveChanges)
	}

	metrics.ModActions.WithLabelValues(kind).Inc()

	return nil
}

func (m Moderation) logToChannel(ctx context.Context, guildID string, payload *discordgo.MessageEmbed) {
	channelID, found, errChannel := m.settings.LogChannel(ctx, guildID)
	if errChannel != nil {
		slog.Error("Failed to read log channel setting", log.ErrAttr(errChannel))

		return
	}

	if !found {
		return
	}

	if errSend := m.platform.SendChannelMessage(channelID, payload); errSend != nil {
		slog.Warn("Failed to deliver action log message",
			slog.String("guild_id", guildID), log.ErrAttr(errSend))
	}
}

// Warn appends a warning and awards the acting moderator a point.
func (m Moderation) Warn(ctx context.Context, guildID string, actorID string, targetID string, reason string) (domain.Warning, error) {
	if errPerm := m.authorizer.RequireModerator(ctx, guildID, actorID); errPerm != nil {
		return domain.Warning{}, errPerm
	}

	added, errAdd := m.warnings.Add(ctx, guildID, targetID, reason)
	if errAdd != nil {
		return domain.Warning{}, errAdd
	}

	if errAccrue := m.accrue(ctx, guildID, actorID, "warn"); errAccrue != nil {
		return added, errAccrue
	}

	msgEmbed := discord.NewEmbed("Warning Issued", reason)
	msgEmbed.Embed().SetColor(discord.ColourWarn)
	msgEmbed.AddMember("Member", targetID).AddMember("Moderator", actorID)
	m.logToChannel(ctx, guildID, msgEmbed.Message())

	return added, nil
}

// Unwarn removes at most one warning matching the reason. Removing from a
// member with no matching warning is reported, not an error.
func (m Moderation) Unwarn(ctx context.Context, guildID string, actorID string, targetID string, reason string) (bool, error) {
	if errPerm := m.authorizer.RequireModerator(ctx, guildID, actorID); errPerm != nil {
		return false, errPerm
	}

	return m.warnings.RemoveOne(ctx, guildID, targetID, reason)
}

func (m Moderation) Warnings(ctx context.Context, guildID string, actorID string, targetID string) ([]domain.Warning, error) {
	if errPerm := m.authorizer.RequireModerator(ctx, guildID, actorID); errPerm != nil {
		return nil, errPerm
	}

	return m.warnings.List(ctx, guildID, targetID)
}

func (m Moderation) ClearWarnings(ctx context.Context, guildID string, actorID string, targetID string) error {
	if errPerm := m.authorizer.RequireModerator(ctx, guildID, actorID); errPerm != nil {
		return errPerm
	}

	return m.warnings.RemoveAll(ctx, guildID, targetID)
}

// Mute times the target out on the platform. Points accrue only after the
// platform confirmed the action.
func (m Moderation) Mute(ctx context.Context, guildID string, actorID string, targetID string, duration time.Duration, reason string) error {
	if errPerm := m.authorizer.RequireModerator(ctx, guildID, actorID); errPerm != nil {
		return errPerm
	}

	if errTimeout := m.platform.ApplyTimeout(ctx, guildID, targetID, duration, reason); errTimeout != nil {
		return errTimeout
	}

	if errAccrue := m.accrue(ctx, guildID, actorID, "mute"); errAccrue != nil {
		return errAccrue
	}

	msgEmbed := discord.NewEmbed("Member Muted", reason)
	msgEmbed.Embed().SetColor(discord.ColourWarn)
	msgEmbed.AddMember("Member", targetID).AddMember("Moderator", actorID)
	msgEmbed.Embed().AddField("Duration", duration.String()).MakeFieldInline()
	m.logToChannel(ctx, guildID, msgEmbed.Message())

	return nil
}

func (m Moderation) Unmute(ctx context.Context, guildID string, actorID string, targetID string) error {
	if errPerm := m.authorizer.RequireModerator(ctx, guildID, actorID); errPerm != nil {
		return errPerm
	}

	if errTimeout := m.platform.ClearTimeout(ctx, guildID, targetID); errTimeout != nil {
		return errTimeout
	}

	return m.accrue(ctx, guildID, actorID, "unmute")
}

func (m Moderation) Ban(ctx context.Context, guildID string, actorID string, targetID string, reason string) error {
	if errPerm := m.authorizer.RequireModerator(ctx, guildID, actorID); errPerm != nil {
		return errPerm
	}

	if errBan := m.platform.BanMember(ctx, guildID, targetID, reason); errBan != nil {
		return errBan
	}

	if errAccrue := m.accrue(ctx, guildID, actorID, "ban"); errAccrue != nil {
		return errAccrue
	}

	msgEmbed := discord.NewEmbed("Member Banned", reason)
	msgEmbed.Embed().SetColor(discord.ColourError)
	msgEmbed.AddMember("Member", targetID).AddMember("Moderator", actorID)
	m.logToChannel(ctx, guildID, msgEmbed.Message())

	return nil
}

func (m Moderation) Unban(ctx context.Context, guildID string, actorID string, targetID string) error {
	if errPerm := m.authorizer.RequireModerator(ctx, guildID, actorID); errPerm != nil {
		return errPerm
	}

	if errUnban := m.platform.UnbanMember(ctx, guildID, targetID); errUnban != nil {
		return errUnban
	}

	return m.accrue(ctx, guildID, actorID, "unban")
}

// DenyListAdd places the target on the deny-list, replacing any prior reason.
func (m Moderation) DenyListAdd(ctx context.Context, guildID string, actorID string, targetID string, reason string) error {
	if errPerm := m.authorizer.RequireAdmin(ctx, guildID, actorID); errPerm != nil {
		return errPerm
	}

	if errAdd := m.denyList.Add(ctx, guildID, targetID, reason); errAdd != nil {
		return errAdd
	}

	msgEmbed := discord.NewEmbed("Deny-List Addition", reason)
	msgEmbed.Embed().SetColor(discord.ColourError)
	msgEmbed.AddMember("Member", targetID).AddMember("Admin", actorID)
	m.logToChannel(ctx, guildID, msgEmbed.Message())

	metrics.ModActions.WithLabelValues("denylist_add").Inc()

	return nil
}

func (m Moderation) DenyListRemove(ctx context.Context, guildID string, actorID string, targetID string) error {
	if errPerm := m.authorizer.RequireAdmin(ctx, guildID, actorID); errPerm != nil {
		return errPerm
	}

	return m.denyList.Remove(ctx, guildID, targetID)
}

func (m Moderation) DenyListCheck(ctx context.Context, guildID string, actorID string, targetID string) (domain.DenyListEntry, bool, error) {
	if errPerm := m.authorizer.RequireModerator(ctx, guildID, actorID); errPerm != nil {
		return domain.DenyListEntry{}, false, errPerm
	}

	return m.denyList.Check(ctx, guildID, targetID)
}

// GrantPoints is the manual admin correction; the delta is applied as given
// with no implicit accrual.
func (m Moderation) GrantPoints(ctx context.Context, guildID string, actorID string, targetID string, delta int64) (int64, error) {
	if errPerm := m.authorizer.RequireAdmin(ctx, guildID, actorID); errPerm != nil {
		return 0, errPerm
	}

	if delta == 0 {
		return 0, fmt.Errorf("%w: delta must be non-zero", domain.ErrInvalidParameter)
	}

	return m.points.Adjust(ctx, guildID, targetID, delta)
}
