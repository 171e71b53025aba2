package roster_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/internal/roster"
	"github.com/dsemenov-dev/dutymeter/internal/settings"
	"github.com/dsemenov-dev/dutymeter/internal/tests"
)

func newRoster(platform *tests.FakePlatform) (roster.Roster, settings.Settings) {
	guildSettings := settings.NewSettings(tests.NewMemorySettingsRepository())

	return roster.NewRoster(tests.NewMemoryRosterRepository(), guildSettings, platform), guildSettings
}

func TestAcceptAddsAndNotifies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	platform := tests.NewFakePlatform("guild-1")
	candidates, _ := newRoster(platform)

	require.NoError(t, candidates.Accept(ctx, "guild-1", "member-1"))

	members, errList := candidates.List(ctx, "guild-1")
	require.NoError(t, errList)
	require.Equal(t, []string{"member-1"}, members)

	dms := platform.DirectMessages()
	require.Len(t, dms, 1)
	require.Equal(t, "member-1", dms[0].MemberID)
}

func TestAcceptBlockedDMStillAdds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	platform := tests.NewFakePlatform("guild-1")
	platform.BlockedDMs["member-1"] = true
	candidates, _ := newRoster(platform)

	require.NoError(t, candidates.Accept(ctx, "guild-1", "member-1"))

	members, errList := candidates.List(ctx, "guild-1")
	require.NoError(t, errList)
	require.Equal(t, []string{"member-1"}, members)
	require.Empty(t, platform.DirectMessages())
}

func TestCallUpMessagesAllAndClears(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	platform := tests.NewFakePlatform("guild-1")
	candidates, _ := newRoster(platform)

	require.NoError(t, candidates.Accept(ctx, "guild-1", "member-1"))
	require.NoError(t, candidates.Accept(ctx, "guild-1", "member-2"))

	count, errCall := candidates.CallUp(ctx, "guild-1")
	require.NoError(t, errCall)
	require.Equal(t, 2, count)

	members, errList := candidates.List(ctx, "guild-1")
	require.NoError(t, errList)
	require.Empty(t, members)

	// Two acceptance notices plus two call up notices.
	require.Len(t, platform.DirectMessages(), 4)
}

func TestCallUpEmptyRoster(t *testing.T) {
	t.Parallel()

	platform := tests.NewFakePlatform("guild-1")
	candidates, _ := newRoster(platform)

	count, errCall := candidates.CallUp(context.Background(), "guild-1")
	require.NoError(t, errCall)
	require.Equal(t, 0, count)
}

func TestPromoteAssignsStaffRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	platform := tests.NewFakePlatform("guild-1")
	candidates, guildSettings := newRoster(platform)

	const roleID = "146232313634451234"
	require.NoError(t, guildSettings.SetSnowflake(ctx, "guild-1", domain.KeyAdminRole, roleID))

	granted, errPromote := candidates.Promote(ctx, "guild-1", "member-1")
	require.NoError(t, errPromote)
	require.Equal(t, roleID, granted)
	require.Contains(t, platform.RoleHolders[roleID], "member-1")
}

func TestPromoteUnconfiguredStaffRole(t *testing.T) {
	t.Parallel()

	platform := tests.NewFakePlatform("guild-1")
	candidates, _ := newRoster(platform)

	_, errPromote := candidates.Promote(context.Background(), "guild-1", "member-1")
	require.ErrorIs(t, errPromote, roster.ErrStaffRoleNotConfigured)
	require.Empty(t, platform.Actions)
}
