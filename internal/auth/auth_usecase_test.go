package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsemenov-dev/dutymeter/internal/auth"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/internal/tests"
)

func TestResolveAdmin(t *testing.T) {
	t.Parallel()

	platform := tests.NewFakePlatform("guild-1")
	platform.Admins["admin-1"] = true

	authorizer := auth.NewAuthorizer(tests.NewMemoryModRoleRepository(), platform)

	privilege, errResolve := authorizer.Resolve(context.Background(), "guild-1", "admin-1")
	require.NoError(t, errResolve)
	require.Equal(t, domain.PAdmin, privilege)
}

func TestResolveModeratorThroughRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	platform := tests.NewFakePlatform("guild-1")
	platform.Roles["mod-1"] = []string{"role-a", "role-b"}

	authorizer := auth.NewAuthorizer(tests.NewMemoryModRoleRepository(), platform)
	require.NoError(t, authorizer.RegisterModRole(ctx, "guild-1", "role-b"))

	privilege, errResolve := authorizer.Resolve(ctx, "guild-1", "mod-1")
	require.NoError(t, errResolve)
	require.Equal(t, domain.PModerator, privilege)
}

func TestResolveNoCapability(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	platform := tests.NewFakePlatform("guild-1")
	platform.Roles["member-1"] = []string{"role-c"}

	authorizer := auth.NewAuthorizer(tests.NewMemoryModRoleRepository(), platform)
	require.NoError(t, authorizer.RegisterModRole(ctx, "guild-1", "role-b"))

	privilege, errResolve := authorizer.Resolve(ctx, "guild-1", "member-1")
	require.NoError(t, errResolve)
	require.Equal(t, domain.PNone, privilege)
}

func TestRequireAdminRejectsModerator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	platform := tests.NewFakePlatform("guild-1")
	platform.Roles["mod-1"] = []string{"role-b"}

	authorizer := auth.NewAuthorizer(tests.NewMemoryModRoleRepository(), platform)
	require.NoError(t, authorizer.RegisterModRole(ctx, "guild-1", "role-b"))

	require.NoError(t, authorizer.RequireModerator(ctx, "guild-1", "mod-1"))
	require.ErrorIs(t, authorizer.RequireAdmin(ctx, "guild-1", "mod-1"), domain.ErrPermissionDenied)
}

func TestUnregisterModRoleRevokesCapability(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	platform := tests.NewFakePlatform("guild-1")
	platform.Roles["mod-1"] = []string{"role-b"}

	authorizer := auth.NewAuthorizer(tests.NewMemoryModRoleRepository(), platform)
	require.NoError(t, authorizer.RegisterModRole(ctx, "guild-1", "role-b"))
	require.NoError(t, authorizer.UnregisterModRole(ctx, "guild-1", "role-b"))

	require.ErrorIs(t, authorizer.RequireModerator(ctx, "guild-1", "mod-1"), domain.ErrPermissionDenied)
}
