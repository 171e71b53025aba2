package points_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsemenov-dev/dutymeter/internal/points"
	"github.com/dsemenov-dev/dutymeter/internal/tests"
)

func TestAdjustAccumulates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := points.NewPoints(tests.NewMemoryPointsRepository())

	value, errAdjust := engine.Adjust(ctx, "guild-1", "member-1", 3)
	require.NoError(t, errAdjust)
	require.Equal(t, int64(3), value)

	value, errAdjust = engine.Adjust(ctx, "guild-1", "member-1", 4)
	require.NoError(t, errAdjust)
	require.Equal(t, int64(7), value)

	balance, errBalance := engine.Balance(ctx, "guild-1", "member-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(7), balance)
}

func TestBalanceUnknownMemberIsZero(t *testing.T) {
	t.Parallel()

	engine := points.NewPoints(tests.NewMemoryPointsRepository())

	balance, errBalance := engine.Balance(context.Background(), "guild-1", "nobody")
	require.NoError(t, errBalance)
	require.Equal(t, int64(0), balance)
}

func TestAdjustMayGoNegative(t *testing.T) {
	t.Parallel()

	engine := points.NewPoints(tests.NewMemoryPointsRepository())

	value, errAdjust := engine.Adjust(context.Background(), "guild-1", "member-1", -5)
	require.NoError(t, errAdjust)
	require.Equal(t, int64(-5), value)
}

func TestAdjustConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := points.NewPoints(tests.NewMemoryPointsRepository())

	const workers = 20

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, errAdjust := engine.Adjust(ctx, "guild-1", "member-1", 1)
			require.NoError(t, errAdjust)
		}()
	}

	wg.Wait()

	balance, errBalance := engine.Balance(ctx, "guild-1", "member-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(workers), balance)
}

func TestBalancesScopedToGuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := points.NewPoints(tests.NewMemoryPointsRepository())

	_, errAdjust := engine.Adjust(ctx, "guild-1", "member-1", 5)
	require.NoError(t, errAdjust)
	_, errAdjust = engine.Adjust(ctx, "guild-2", "member-2", 9)
	require.NoError(t, errAdjust)

	balances, errBalances := engine.Balances(ctx, "guild-1")
	require.NoError(t, errBalances)
	require.Len(t, balances, 1)
	require.Equal(t, "member-1", balances[0].MemberID)

	require.NoError(t, engine.ResetGuild(ctx, "guild-1"))

	balance, errBalance := engine.Balance(ctx, "guild-1", "member-1")
	require.NoError(t, errBalance)
	require.Equal(t, int64(0), balance)

	balance, errBalance = engine.Balance(ctx, "guild-2", "member-2")
	require.NoError(t, errBalance)
	require.Equal(t, int64(9), balance)
}
