// Package routing models the coordinator's router collaborator: the
// distributional summary of remote channel capacities used by the splitter
// to size fragments for a non-direct recipient, and the Router contract the
// coordinator polls for it. Route-finding proper — computing the suffix
// beyond the dictated first hop — is an external collaborator's job and out
// of scope here.
package routing

import (
	"sort"

	"github.com/btcsuite/btcd/btcutil"
)

// NetworkStats is a distributional summary of remote channel capacities,
// expressed in satoshi. The splitter uses the 75th percentile as a fragment
// sizing hint when the recipient is not a direct peer.
type NetworkStats struct {
	// Median is the 50th percentile remote channel capacity.
	Median btcutil.Amount

	// P75 is the 75th percentile remote channel capacity.
	P75 btcutil.Amount

	// P90 is the 90th percentile remote channel capacity.
	P90 btcutil.Amount

	// P99 is the 99th percentile remote channel capacity.
	P99 btcutil.Amount
}

// EstimateNetworkStats computes a NetworkStats summary from a sample of
// remote channel capacities. An empty sample yields a zero-valued
// NetworkStats rather than an error; ChannelRouter caches and serves that
// value like any other result.
func EstimateNetworkStats(samples []btcutil.Amount) NetworkStats {
	if len(samples) == 0 {
		return NetworkStats{}
	}

	sorted := make([]btcutil.Amount, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return NetworkStats{
		Median: percentile(sorted, 0.50),
		P75:    percentile(sorted, 0.75),
		P90:    percentile(sorted, 0.90),
		P99:    percentile(sorted, 0.99),
	}
}

// percentile returns the element at index floor(frac*(len-1)) of a
// pre-sorted, non-empty slice, for a fraction frac in 0..1; it does not
// interpolate between neighbouring elements.
func percentile(sorted []btcutil.Amount, frac float64) btcutil.Amount {
	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := int(frac * float64(len(sorted)-1))
	return sorted[idx]
}
