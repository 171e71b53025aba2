// Package quota implements the recurring weekly audit. Once per period every
// guild with quota enforcement configured has its staff balances compared
// against the quota, shortfalls notified and balances reset for the next
// period. Enforcement is opt-in per guild: a missing quota or staff role
// setting skips the guild entirely.
package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dsemenov-dev/dutymeter/internal/discord"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/internal/metrics"
	"github.com/dsemenov-dev/dutymeter/internal/points"
	"github.com/dsemenov-dev/dutymeter/internal/settings"
	"github.com/dsemenov-dev/dutymeter/pkg/log"
)

// DefaultPeriod is one week between audits.
const DefaultPeriod = time.Hour * 168

type Scheduler struct {
	settings settings.Settings
	points   points.Points
	platform domain.Platform
	period   time.Duration
	running  atomic.Bool
}

func NewScheduler(guildSettings settings.Settings, pointsEngine points.Points, platform domain.Platform,
	period time.Duration,
) *Scheduler {
	if period <= 0 {
		period = DefaultPeriod
	}

	return &Scheduler{
		settings: guildSettings,
		points:   pointsEngine,
		platform: platform,
		period:   period,
	}
}

// Start blocks until ctx is cancelled, firing the audit once per period. The
// first firing happens one full period after start; there is no catch-up for
// periods missed while the process was down.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	slog.Info("Quota scheduler started", slog.Duration("period", s.period))

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("Quota scheduler stopped")

			return
		}
	}
}

// RunOnce executes the audit body for every guild. Overlapping invocations
// are skipped, not queued; a long audit simply swallows the next firing.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.AuditSkipped.Inc()
		slog.Warn("Skipped quota audit, previous audit still running")

		return
	}

	defer s.running.Store(false)

	for _, guildID := range s.platform.GuildIDs() {
		if ctx.Err() != nil {
			return
		}

		if errAudit := s.auditGuild(ctx, guildID); errAudit != nil {
			slog.Error("Quota audit failed for guild",
				slog.String("guild_id", guildID), log.ErrAttr(errAudit))
		}
	}

	metrics.AuditRuns.Inc()
}

// auditGuild evaluates and resets exactly one guild. The reset only touches
// this guild's rows so later guilds in the same firing keep their balances.
func (s *Scheduler) auditGuild(ctx context.Context, guildID string) error {
	quota, quotaSet, errQuota := s.settings.QuotaAmount(ctx, guildID)
	if errQuota != nil {
		return errQuota
	}

	staffRole, roleSet, errRole := s.settings.AdminRole(ctx, guildID)
	if errRole != nil {
		return errRole
	}

	if !quotaSet || !roleSet {
		slog.Debug("Quota enforcement not configured, skipping guild", slog.String("guild_id", guildID))

		return nil
	}

	members, errMembers := s.platform.RoleMembers(ctx, guildID, staffRole)
	if errMembers != nil {
		return errMembers
	}

	logChannelID, logChannelSet, errChannel := s.settings.LogChannel(ctx, guildID)
	if errChannel != nil {
		return errChannel
	}

	for _, memberID := range members {
		balance, errBalance := s.points.Balance(ctx, guildID, memberID)
		if errBalance != nil {
			return errBalance
		}

		if balance >= quota {
			continue
		}

		s.notifyShortfall(ctx, guildID, memberID, balance, quota, logChannelID, logChannelSet)
	}

	if errReset := s.points.ResetGuild(ctx, guildID); errReset != nil {
		return errReset
	}

	slog.Info("Quota audit completed",
		slog.String("guild_id", guildID), slog.Int("staff", len(members)), slog.Int64("quota", quota))

	return nil
}

// notifyShortfall posts to the log channel when configured and attempts a
// direct message. A blocked DM is absorbed so the rest of the audit proceeds.
func (s *Scheduler) notifyShortfall(ctx context.Context, guildID string, memberID string,
	balance int64, quota int64, logChannelID string, logChannelSet bool,
) {
	metrics.Shortfalls.Inc()

	if logChannelSet {
		msgEmbed := discord.NewEmbed("Weekly Quota Not Met",
			fmt.Sprintf("<@%s> finished the period at %d/%d points", memberID, balance, quota))
		msgEmbed.Embed().SetColor(discord.ColourWarn)

		if errSend := s.platform.SendChannelMessage(logChannelID, msgEmbed.Message()); errSend != nil {
			slog.Warn("Failed to post shortfall to log channel",
				slog.String("guild_id", guildID), log.ErrAttr(errSend))
		}
	}

	message := fmt.Sprintf("You did not meet the weekly activity quota (%d/%d points).", balance, quota)
	if errSend := s.platform.SendDirectMessage(ctx, memberID, message); errSend != nil {
		metrics.DeliveryFailures.Inc()
		slog.Warn("Failed to deliver shortfall notice",
			slog.String("guild_id", guildID), slog.String("member_id", memberID),
			log.ErrAttr(errors.Join(errSend, domain.ErrDeliveryFailed)))
	}
}
