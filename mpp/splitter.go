package mpp

import (
	"bytes"
	"math/rand"

	"github.com/lightninglabs/mppcoord/htlcswitch"
	"github.com/lightninglabs/mppcoord/lnwire"
	"github.com/lightninglabs/mppcoord/routing"
	"golang.org/x/exp/slices"
)

// Split partitions amount across the given usable balances into a set of
// ChildDescriptors, per the splitting algorithm: a direct channel to the
// recipient is preferred exclusively when available, remote fragments are
// sized to the network's 75th-percentile channel capacity, and each channel
// is rejected outright if even its smallest fragment would exceed the route
// parameters' fee budget. It is a pure function: randomize, when true, uses
// rng to shuffle the eligible balances instead of ordering them by
// descending capacity, and rng must be supplied by the caller — Split never
// seeds its own source.
//
// The returned descriptors' amounts sum to amount - remaining. remaining is
// zero iff the full amount could be placed.
func Split(
	amount lnwire.MilliSatoshi,
	balances []htlcswitch.UsableBalance,
	stats routing.NetworkStats,
	req SendRequest,
	randomize bool,
	rng *rand.Rand,
) (lnwire.MilliSatoshi, []htlcswitch.ChildDescriptor) {

	eligible, direct := directPeerShortcut(balances, req.Target)

	feeBudget := req.RouteParams().MaxFeeBudget(amount)

	filtered := eligible[:0:0]
	for _, bal := range eligible {
		if bal.Update.Fee(bal.Update.MinHTLC) > feeBudget {
			continue
		}
		filtered = append(filtered, bal)
	}
	eligible = filtered

	// Fragment target is a single scalar applied uniformly across every
	// channel this split call considers: the network's 75th-percentile
	// remote capacity for a multi-hop recipient, or the smallest direct
	// channel's own sendable amount when the direct-peer shortcut
	// applies (so every direct fragment fits in every eligible channel).
	var fragmentTarget lnwire.MilliSatoshi
	if direct {
		for _, bal := range eligible {
			avail := bal.Available()
			if fragmentTarget == 0 || avail < fragmentTarget {
				fragmentTarget = avail
			}
		}
	} else {
		fragmentTarget = lnwire.NewMSatFromSatoshis(stats.P75)
	}

	if randomize {
		rng.Shuffle(len(eligible), func(i, j int) {
			eligible[i], eligible[j] = eligible[j], eligible[i]
		})
	} else {
		slices.SortFunc(eligible, func(a, b htlcswitch.UsableBalance) bool {
			if a.Available() != b.Available() {
				return a.Available() > b.Available()
			}
			return a.ChannelID < b.ChannelID
		})
	}

	remaining := amount
	var descriptors []htlcswitch.ChildDescriptor
	used := make(map[uint64]lnwire.MilliSatoshi, len(eligible))
	descIndex := make(map[uint64]int, len(eligible))

	// A channel is not limited to a single fragment: repeated passes over
	// the eligible set keep drawing a fragmentTarget-sized descriptor
	// from each channel that still has net capacity, so the total
	// placeable amount scales with channel capacity rather than with
	// channel count. A pass that places nothing means every channel is
	// either exhausted or can no longer clear its own fee budget.
	for remaining > 0 {
		progressed := false

		for _, bal := range eligible {
			if remaining == 0 {
				break
			}

			amt, ok := fragmentAmount(bal, remaining, fragmentTarget, feeBudget, used[bal.ChannelID])
			if !ok {
				continue
			}

			if remaining-amt < bal.Update.MinHTLC && amt < remaining {
				if idx, ok := descIndex[bal.ChannelID]; ok && mergeIntoPrevious(descriptors, idx, amt, bal) {
					remaining -= amt
					used[bal.ChannelID] += amt
					progressed = true
				}
				continue
			}

			descriptors = append(descriptors, newDescriptor(req, bal, amt))
			descIndex[bal.ChannelID] = len(descriptors) - 1
			remaining -= amt
			used[bal.ChannelID] += amt
			progressed = true
		}

		if !progressed {
			break
		}
	}

	return remaining, descriptors
}

// directPeerShortcut returns the balances eligible for splitting: direct
// channels to the target when any exist, otherwise every balance. The
// second return reports whether the direct shortcut applied.
func directPeerShortcut(
	balances []htlcswitch.UsableBalance, target interface{ SerializeCompressed() []byte }) ([]htlcswitch.UsableBalance, bool) {

	var direct []htlcswitch.UsableBalance
	targetBytes := target.SerializeCompressed()
	for _, bal := range balances {
		if bal.PeerPubKey == nil {
			continue
		}
		if bytes.Equal(bal.PeerPubKey.SerializeCompressed(), targetBytes) {
			direct = append(direct, bal)
		}
	}

	if len(direct) > 0 {
		return direct, true
	}

	all := make([]htlcswitch.UsableBalance, len(balances))
	copy(all, balances)
	return all, false
}

// fragmentAmount computes how much of remaining a channel can accept,
// capped by the channel's available balance (net of used, the amount
// already drawn from it by earlier fragments, and of its own first-hop fee)
// and by fragmentTarget, and rejects the channel if the resulting amount
// would itself push the fee over feeBudget.
func fragmentAmount(
	bal htlcswitch.UsableBalance, remaining, fragmentTarget,
	feeBudget, used lnwire.MilliSatoshi) (lnwire.MilliSatoshi, bool) {

	total := bal.Available()
	if used >= total {
		return 0, false
	}
	available := total - used

	fee := bal.Update.Fee(available)
	var net lnwire.MilliSatoshi
	if available > fee {
		net = available - fee
	}
	if net == 0 {
		return 0, false
	}

	amt := minMSat(remaining, fragmentTarget, net)
	if amt == 0 {
		return 0, false
	}

	if bal.Update.Fee(amt) > feeBudget {
		return 0, false
	}
	if amt < bal.Update.MinHTLC {
		return 0, false
	}

	return amt, true
}

// mergeIntoPrevious attempts to fold a dust-sized remainder into the
// channel's own earlier descriptor at idx, keeping it within the channel's
// available capacity. Round-robin placement means that descriptor need not
// be the last one appended.
func mergeIntoPrevious(descriptors []htlcswitch.ChildDescriptor, idx int, amt lnwire.MilliSatoshi, bal htlcswitch.UsableBalance) bool {
	target := &descriptors[idx]

	combined := target.FinalPayload.Amount + amt
	if combined > bal.Available() {
		return false
	}

	target.FinalPayload.Amount = combined
	return true
}

func newDescriptor(req SendRequest, bal htlcswitch.UsableBalance, amt lnwire.MilliSatoshi) htlcswitch.ChildDescriptor {
	return htlcswitch.ChildDescriptor{
		PaymentHash: req.PaymentHash,
		Target:      req.Target,
		MaxAttempts: req.MaxAttempts,
		RoutePrefix: htlcswitch.RoutePrefix{
			PeerPubKey:    bal.PeerPubKey,
			ChannelID:     bal.ChannelID,
			ChannelUpdate: bal.Update,
		},
		FinalPayload: htlcswitch.FinalPayload{
			Amount:        amt,
			TotalAmount:   req.Amount,
			PaymentSecret: req.PaymentSecret(),
		},
	}
}

func minMSat(vals ...lnwire.MilliSatoshi) lnwire.MilliSatoshi {
	min := vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
