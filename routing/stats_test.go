package routing

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

func TestEstimateNetworkStatsEmpty(t *testing.T) {
	t.Parallel()

	stats := EstimateNetworkStats(nil)
	require.Equal(t, NetworkStats{}, stats)
}

func TestEstimateNetworkStatsSingleSample(t *testing.T) {
	t.Parallel()

	stats := EstimateNetworkStats([]btcutil.Amount{500})
	require.Equal(t, btcutil.Amount(500), stats.Median)
	require.Equal(t, btcutil.Amount(500), stats.P99)
}

func TestEstimateNetworkStatsOrdering(t *testing.T) {
	t.Parallel()

	samples := make([]btcutil.Amount, 0, 100)
	for i := 1; i <= 100; i++ {
		samples = append(samples, btcutil.Amount(i*1000))
	}

	stats := EstimateNetworkStats(samples)

	require.LessOrEqual(t, int64(stats.Median), int64(stats.P75))
	require.LessOrEqual(t, int64(stats.P75), int64(stats.P90))
	require.LessOrEqual(t, int64(stats.P90), int64(stats.P99))
}

func TestEstimateNetworkStatsUnsortedInputUnaffected(t *testing.T) {
	t.Parallel()

	samples := []btcutil.Amount{900, 100, 500, 300, 700}
	stats := EstimateNetworkStats(samples)

	// The input slice must not be mutated by the estimator.
	require.Equal(t, []btcutil.Amount{900, 100, 500, 300, 700}, samples)
	require.Greater(t, int64(stats.P99), int64(0))
}
