package warning_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsemenov-dev/dutymeter/internal/tests"
	"github.com/dsemenov-dev/dutymeter/internal/warning"
)

func TestAddAssignsID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	warnings := warning.NewWarnings(tests.NewMemoryWarningRepository())

	first, errAdd := warnings.Add(ctx, "guild-1", "member-1", "spam")
	require.NoError(t, errAdd)
	require.Positive(t, first.WarningID)
	require.False(t, first.CreatedOn.IsZero())

	second, errAdd := warnings.Add(ctx, "guild-1", "member-1", "spam")
	require.NoError(t, errAdd)
	require.Greater(t, second.WarningID, first.WarningID)
}

func TestAddRejectsEmptyReason(t *testing.T) {
	t.Parallel()

	warnings := warning.NewWarnings(tests.NewMemoryWarningRepository())

	_, errAdd := warnings.Add(context.Background(), "guild-1", "member-1", "   ")
	require.ErrorIs(t, errAdd, warning.ErrReasonEmpty)
}

func TestRemoveOneDeletesSingleMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	warnings := warning.NewWarnings(tests.NewMemoryWarningRepository())

	_, errAdd := warnings.Add(ctx, "guild-1", "member-1", "spam")
	require.NoError(t, errAdd)
	_, errAdd = warnings.Add(ctx, "guild-1", "member-1", "spam")
	require.NoError(t, errAdd)

	removed, errRemove := warnings.RemoveOne(ctx, "guild-1", "member-1", "spam")
	require.NoError(t, errRemove)
	require.True(t, removed)

	remaining, errList := warnings.List(ctx, "guild-1", "member-1")
	require.NoError(t, errList)
	require.Len(t, remaining, 1)
}

func TestRemoveOneNoMatchLeavesLedgerUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	warnings := warning.NewWarnings(tests.NewMemoryWarningRepository())

	_, errAdd := warnings.Add(ctx, "guild-1", "member-1", "spam")
	require.NoError(t, errAdd)

	removed, errRemove := warnings.RemoveOne(ctx, "guild-1", "member-1", "flooding")
	require.NoError(t, errRemove)
	require.False(t, removed)

	remaining, errList := warnings.List(ctx, "guild-1", "member-1")
	require.NoError(t, errList)
	require.Len(t, remaining, 1)
}

func TestRemoveAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	warnings := warning.NewWarnings(tests.NewMemoryWarningRepository())

	_, errAdd := warnings.Add(ctx, "guild-1", "member-1", "spam")
	require.NoError(t, errAdd)
	_, errAdd = warnings.Add(ctx, "guild-1", "member-1", "flooding")
	require.NoError(t, errAdd)
	_, errAdd = warnings.Add(ctx, "guild-1", "member-2", "spam")
	require.NoError(t, errAdd)

	require.NoError(t, warnings.RemoveAll(ctx, "guild-1", "member-1"))

	cleared, errList := warnings.List(ctx, "guild-1", "member-1")
	require.NoError(t, errList)
	require.Empty(t, cleared)

	untouched, errList := warnings.List(ctx, "guild-1", "member-2")
	require.NoError(t, errList)
	require.Len(t, untouched, 1)
}
