package moderation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsemenov-dev/dutymeter/internal/auth"
	"github.com/dsemenov-dev/dutymeter/internal/denylist"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/internal/moderation"
	"github.com/dsemenov-dev/dutymeter/internal/points"
	"github.com/dsemenov-dev/dutymeter/internal/settings"
	"github.com/dsemenov-dev/dutymeter/internal/tests"
	"github.com/dsemenov-dev/dutymeter/internal/warning"
)

type fixture struct {
	platform   *tests.FakePlatform
	points     points.Points
	warnings   warning.Warnings
	settings   settings.Settings
	authorizer auth.Authorizer
	moderation moderation.Moderation
}

func newFixture(guildIDs ...string) *fixture {
	platform := tests.NewFakePlatform(guildIDs...)
	pointsEngine := points.NewPoints(tests.NewMemoryPointsRepository())
	warnings := warning.NewWarnings(tests.NewMemoryWarningRepository())
	denyList := denylist.NewDenyList(tests.NewMemoryDenyListRepository())
	guildSettings := settings.NewSettings(tests.NewMemorySettingsRepository())
	authorizer := auth.NewAuthorizer(tests.NewMemoryModRoleRepository(), platform)

	return &fixture{
		platform:   platform,
		points:     pointsEngine,
		warnings:   warnings,
		settings:   guildSettings,
		authorizer: authorizer,
		moderation: moderation.NewModeration(authorizer, warnings, denyList,
			pointsEngine, guildSettings, platform),
	}
}

func TestWarnAccruesOnePoint(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Admins["mod-1"] = true

	added, errWarn := fix.moderation.Warn(ctx, "guild-1", "mod-1", "member-1", "spam")
	require.NoError(t, errWarn)
	require.Positive(t, added.WarningID)

	balance, errBalance := fix.points.Balance(ctx, "guild-1", "mod-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(1), balance)

	targetBalance, errTarget := fix.points.Balance(ctx, "guild-1", "member-1")
	require.NoError(t, errTarget)
	require.Equal(t, int64(0), targetBalance)
}

func TestWarnDeniedWithoutCapability(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")

	_, errWarn := fix.moderation.Warn(ctx, "guild-1", "stranger", "member-1", "spam")
	require.ErrorIs(t, errWarn, domain.ErrPermissionDenied)

	warnings, errList := fix.warnings.List(ctx, "guild-1", "member-1")
	require.NoError(t, errList)
	require.Empty(t, warnings)

	balance, errBalance := fix.points.Balance(ctx, "guild-1", "stranger")
	require.NoError(t, errBalance)
	require.Equal(t, int64(0), balance)
}

func TestMuteFailureAwardsNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Admins["mod-1"] = true
	fix.platform.FailActions = true

	errMute := fix.moderation.Mute(ctx, "guild-1", "mod-1", "member-1", time.Minute*10, "flooding")
	require.Error(t, errMute)

	balance, errBalance := fix.points.Balance(ctx, "guild-1", "mod-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(0), balance)
}

func TestMuteSuccessAppliesTimeoutAndAccrues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Admins["mod-1"] = true

	require.NoError(t, fix.moderation.Mute(ctx, "guild-1", "mod-1", "member-1", time.Minute*10, "flooding"))

	require.Len(t, fix.platform.Actions, 1)
	require.Equal(t, "timeout", fix.platform.Actions[0].Kind)
	require.Equal(t, "member-1", fix.platform.Actions[0].MemberID)

	balance, errBalance := fix.points.Balance(ctx, "guild-1", "mod-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(1), balance)
}

func TestBanAndUnban(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Admins["mod-1"] = true

	require.NoError(t, fix.moderation.Ban(ctx, "guild-1", "mod-1", "member-1", "cheating"))
	require.NoError(t, fix.moderation.Unban(ctx, "guild-1", "mod-1", "member-1"))

	require.Len(t, fix.platform.Actions, 2)
	require.Equal(t, "ban", fix.platform.Actions[0].Kind)
	require.Equal(t, "unban", fix.platform.Actions[1].Kind)

	balance, errBalance := fix.points.Balance(ctx, "guild-1", "mod-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(2), balance)
}

func TestBanAllowedForModeratorRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Roles["mod-1"] = []string{"role-a"}
	require.NoError(t, fix.authorizer.RegisterModRole(ctx, "guild-1", "role-a"))

	require.NoError(t, fix.moderation.Ban(ctx, "guild-1", "mod-1", "member-1", "cheating"))
	require.NoError(t, fix.moderation.Unban(ctx, "guild-1", "mod-1", "member-1"))

	require.Len(t, fix.platform.Actions, 2)

	balance, errBalance := fix.points.Balance(ctx, "guild-1", "mod-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(2), balance)
}

func TestUnwarnReportsNoMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Admins["mod-1"] = true

	removed, errUnwarn := fix.moderation.Unwarn(ctx, "guild-1", "mod-1", "member-1", "spam")
	require.NoError(t, errUnwarn)
	require.False(t, removed)
}

func TestDenyListRequiresAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Roles["mod-1"] = []string{"role-b"}
	require.NoError(t, fix.authorizer.RegisterModRole(ctx, "guild-1", "role-b"))

	errAdd := fix.moderation.DenyListAdd(ctx, "guild-1", "mod-1", "member-1", "ban evasion")
	require.ErrorIs(t, errAdd, domain.ErrPermissionDenied)
}

func TestDenyListLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Admins["admin-1"] = true

	require.NoError(t, fix.moderation.DenyListAdd(ctx, "guild-1", "admin-1", "member-1", "ban evasion"))

	entry, listed, errCheck := fix.moderation.DenyListCheck(ctx, "guild-1", "admin-1", "member-1")
	require.NoError(t, errCheck)
	require.True(t, listed)
	require.Equal(t, "ban evasion", entry.Reason)

	require.NoError(t, fix.moderation.DenyListRemove(ctx, "guild-1", "admin-1", "member-1"))

	_, listed, errCheck = fix.moderation.DenyListCheck(ctx, "guild-1", "admin-1", "member-1")
	require.NoError(t, errCheck)
	require.False(t, listed)
}

func TestGrantPointsAppliesDeltaWithoutAccrual(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Admins["admin-1"] = true

	value, errGrant := fix.moderation.GrantPoints(ctx, "guild-1", "admin-1", "member-1", 10)
	require.NoError(t, errGrant)
	require.Equal(t, int64(10), value)

	value, errGrant = fix.moderation.GrantPoints(ctx, "guild-1", "admin-1", "member-1", -4)
	require.NoError(t, errGrant)
	require.Equal(t, int64(6), value)

	adminBalance, errBalance := fix.points.Balance(ctx, "guild-1", "admin-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(0), adminBalance)
}

func TestGrantPointsRejectsZeroDelta(t *testing.T) {
	t.Parallel()

	fix := newFixture("guild-1")
	fix.platform.Admins["admin-1"] = true

	_, errGrant := fix.moderation.GrantPoints(context.Background(), "guild-1", "admin-1", "member-1", 0)
	require.ErrorIs(t, errGrant, domain.ErrInvalidParameter)
}

func TestWarnWritesToLogChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fix := newFixture("guild-1")
	fix.platform.Admins["mod-1"] = true

	require.NoError(t, fix.settings.SetSnowflake(ctx, "guild-1", domain.KeyLogChannel, "555000111222333444"))

	_, errWarn := fix.moderation.Warn(ctx, "guild-1", "mod-1", "member-1", "spam")
	require.NoError(t, errWarn)

	require.Len(t, fix.platform.Channels, 1)
	require.Equal(t, "555000111222333444", fix.platform.Channels[0].ChannelID)
}
