package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

func TestChannelRouterAbsentUntilComputed(t *testing.T) {
	t.Parallel()

	router := NewChannelRouter(func(ctx context.Context) ([]btcutil.Amount, error) {
		return []btcutil.Amount{1000, 2000, 3000}, nil
	})

	_, ok := router.GetNetworkStats(context.Background())
	require.False(t, ok)

	require.NoError(t, router.TickComputeNetworkStats(context.Background()))

	stats, ok := router.GetNetworkStats(context.Background())
	require.True(t, ok)
	require.Greater(t, int64(stats.P75), int64(0))
}

func TestChannelRouterPropagatesSourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	router := NewChannelRouter(func(ctx context.Context) ([]btcutil.Amount, error) {
		return nil, boom
	})

	err := router.TickComputeNetworkStats(context.Background())
	require.ErrorIs(t, err, boom)

	_, ok := router.GetNetworkStats(context.Background())
	require.False(t, ok)
}
