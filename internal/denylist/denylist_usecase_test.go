package denylist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsemenov-dev/dutymeter/internal/denylist"
	"github.com/dsemenov-dev/dutymeter/internal/tests"
)

func TestAddReplacesReason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	denyList := denylist.NewDenyList(tests.NewMemoryDenyListRepository())

	require.NoError(t, denyList.Add(ctx, "guild-1", "member-1", "ban evasion"))
	require.NoError(t, denyList.Add(ctx, "guild-1", "member-1", "repeat offender"))

	entry, listed, errCheck := denyList.Check(ctx, "guild-1", "member-1")
	require.NoError(t, errCheck)
	require.True(t, listed)
	require.Equal(t, "repeat offender", entry.Reason)
}

func TestCheckUnlistedMember(t *testing.T) {
	t.Parallel()

	denyList := denylist.NewDenyList(tests.NewMemoryDenyListRepository())

	_, listed, errCheck := denyList.Check(context.Background(), "guild-1", "member-1")
	require.NoError(t, errCheck)
	require.False(t, listed)
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	denyList := denylist.NewDenyList(tests.NewMemoryDenyListRepository())

	require.NoError(t, denyList.Add(ctx, "guild-1", "member-1", "ban evasion"))
	require.NoError(t, denyList.Remove(ctx, "guild-1", "member-1"))
	require.NoError(t, denyList.Remove(ctx, "guild-1", "member-1"))

	_, listed, errCheck := denyList.Check(ctx, "guild-1", "member-1")
	require.NoError(t, errCheck)
	require.False(t, listed)
}

func TestEntriesScopedToGuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	denyList := denylist.NewDenyList(tests.NewMemoryDenyListRepository())

	require.NoError(t, denyList.Add(ctx, "guild-1", "member-1", "ban evasion"))

	_, listed, errCheck := denyList.Check(ctx, "guild-2", "member-1")
	require.NoError(t, errCheck)
	require.False(t, listed)
}
