package quota_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/internal/points"
	"github.com/dsemenov-dev/dutymeter/internal/quota"
	"github.com/dsemenov-dev/dutymeter/internal/settings"
	"github.com/dsemenov-dev/dutymeter/internal/tests"
)

type fixture struct {
	platform  *tests.FakePlatform
	points    points.Points
	settings  settings.Settings
	scheduler *quota.Scheduler
}

func newFixture(guildIDs ...string) *fixture {
	platform := tests.NewFakePlatform(guildIDs...)
	pointsEngine := points.NewPoints(tests.NewMemoryPointsRepository())
	guildSettings := settings.NewSettings(tests.NewMemorySettingsRepository())

	return &fixture{
		platform:  platform,
		points:    pointsEngine,
		settings:  guildSettings,
		scheduler: quota.NewScheduler(guildSettings, pointsEngine, platform, time.Hour),
	}
}

func (f *fixture) configure(t *testing.T, guildID string, quotaAmount int64, roleID string) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, f.settings.Set(ctx, guildID, domain.KeyQuotaAmount, quotaAmount))
	require.NoError(t, f.settings.SetSnowflake(ctx, guildID, domain.KeyAdminRole, roleID))
}

func TestAuditNotifiesShortfallsAndResets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.configure(t, "guild-1", 5, "700000000000000001")
	fix.platform.RoleHolders["700000000000000001"] = []string{"staff-low", "staff-high"}

	_, errAdjust := fix.points.Adjust(ctx, "guild-1", "staff-low", 3)
	require.NoError(t, errAdjust)
	_, errAdjust = fix.points.Adjust(ctx, "guild-1", "staff-high", 7)
	require.NoError(t, errAdjust)

	fix.scheduler.RunOnce(ctx)

	dms := fix.platform.DirectMessages()
	require.Len(t, dms, 1)
	require.Equal(t, "staff-low", dms[0].MemberID)
	require.Contains(t, dms[0].Message, "3/5")

	for _, memberID := range []string{"staff-low", "staff-high"} {
		balance, errBalance := fix.points.Balance(ctx, "guild-1", memberID)
		require.NoError(t, errBalance)
		require.Equal(t, int64(0), balance)
	}
}

func TestAuditExactQuotaPasses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.configure(t, "guild-1", 5, "700000000000000001")
	fix.platform.RoleHolders["700000000000000001"] = []string{"staff-1"}

	_, errAdjust := fix.points.Adjust(ctx, "guild-1", "staff-1", 5)
	require.NoError(t, errAdjust)

	fix.scheduler.RunOnce(ctx)

	require.Empty(t, fix.platform.DirectMessages())
}

func TestAuditSkipsUnconfiguredGuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.RoleHolders["700000000000000001"] = []string{"staff-1"}

	_, errAdjust := fix.points.Adjust(ctx, "guild-1", "staff-1", 2)
	require.NoError(t, errAdjust)

	fix.scheduler.RunOnce(ctx)

	require.Empty(t, fix.platform.DirectMessages())

	balance, errBalance := fix.points.Balance(ctx, "guild-1", "staff-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(2), balance)
}

func TestAuditResetScopedPerGuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1", "guild-2")
	fix.configure(t, "guild-1", 5, "700000000000000001")
	fix.platform.RoleHolders["700000000000000001"] = []string{"staff-1"}

	_, errAdjust := fix.points.Adjust(ctx, "guild-1", "staff-1", 9)
	require.NoError(t, errAdjust)
	_, errAdjust = fix.points.Adjust(ctx, "guild-2", "staff-1", 9)
	require.NoError(t, errAdjust)

	fix.scheduler.RunOnce(ctx)

	resetBalance, errBalance := fix.points.Balance(ctx, "guild-1", "staff-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(0), resetBalance)

	keptBalance, errBalance := fix.points.Balance(ctx, "guild-2", "staff-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(9), keptBalance)
}

func TestAuditBlockedDMDoesNotAbort(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.configure(t, "guild-1", 5, "700000000000000001")
	fix.platform.RoleHolders["700000000000000001"] = []string{"staff-blocked", "staff-low"}
	fix.platform.BlockedDMs["staff-blocked"] = true

	fix.scheduler.RunOnce(ctx)

	dms := fix.platform.DirectMessages()
	require.Len(t, dms, 1)
	require.Equal(t, "staff-low", dms[0].MemberID)

	balance, errBalance := fix.points.Balance(ctx, "guild-1", "staff-low")
	require.NoError(t, errBalance)
	require.Equal(t, int64(0), balance)
}

func TestRunOnceSkipsWhileAuditRunning(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.configure(t, "guild-1", 5, "700000000000000001")
	fix.platform.RoleHolders["700000000000000001"] = []string{"staff-low"}
	fix.platform.GuildGate = make(chan struct{})

	done := make(chan struct{})

	go func() {
		defer close(done)

		fix.scheduler.RunOnce(ctx)
	}()

	// First audit is now held inside GuildIDs; this firing must be skipped.
	<-fix.platform.GuildGate
	fix.scheduler.RunOnce(ctx)

	fix.platform.GuildGate <- struct{}{}
	<-done

	require.Len(t, fix.platform.DirectMessages(), 1)
}

func TestAuditPostsToLogChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.configure(t, "guild-1", 5, "700000000000000001")
	require.NoError(t, fix.settings.SetSnowflake(ctx, "guild-1", domain.KeyLogChannel, "555000111222333444"))
	fix.platform.RoleHolders["700000000000000001"] = []string{"staff-low"}

	fix.scheduler.RunOnce(ctx)

	require.Len(t, fix.platform.Channels, 1)
	require.Equal(t, "555000111222333444", fix.platform.Channels[0].ChannelID)
	require.True(t, strings.Contains(fix.platform.Channels[0].Payload.Description, "0/5"))
}
