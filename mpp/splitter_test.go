package mpp

import (
	"math/rand"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightninglabs/mppcoord/htlcswitch"
	"github.com/lightninglabs/mppcoord/lnwire"
	"github.com/lightninglabs/mppcoord/routing"
	"github.com/stretchr/testify/require"
)

func testPubKey(t *testing.T, seed byte) *btcec.PublicKey {
	t.Helper()
	var buf [32]byte
	buf[31] = seed
	priv, pub := btcec.PrivKeyFromBytes(buf[:])
	require.NotNil(t, priv)
	return pub
}

func directBalance(peer *btcec.PublicKey, chanID uint64, sendable lnwire.MilliSatoshi) htlcswitch.UsableBalance {
	return htlcswitch.UsableBalance{
		PeerPubKey: peer,
		ChannelID:  chanID,
		Sendable:   sendable,
		Public:     true,
		Update: htlcswitch.ChannelUpdate{
			MinHTLC: 1000,
			MaxHTLC: 0,
		},
	}
}

func TestSplitDirectPeerTwoChannels(t *testing.T) {
	t.Parallel()

	peerB := testPubKey(t, 1)
	other := testPubKey(t, 2)

	balances := []htlcswitch.UsableBalance{
		directBalance(peerB, 1, 1_000_000),
		directBalance(peerB, 2, 1_500_000),
		directBalance(other, 3, 5_000_000),
	}

	req := SendRequest{
		Amount:      2_000_000,
		Target:      peerB,
		MaxAttempts: 1,
	}

	remaining, descriptors := Split(
		req.Amount, balances, routing.NetworkStats{}, req, false, nil,
	)

	require.Equal(t, lnwire.MilliSatoshi(0), remaining)
	require.Len(t, descriptors, 2)

	var total lnwire.MilliSatoshi
	for _, d := range descriptors {
		require.Equal(t, req.Amount, d.FinalPayload.TotalAmount)
		total += d.FinalPayload.Amount
	}
	require.Equal(t, req.Amount, total)
}

func TestSplitRemotePeerRequiresSplitting(t *testing.T) {
	t.Parallel()

	peerE := testPubKey(t, 9)
	peerB := testPubKey(t, 1)
	peerC := testPubKey(t, 2)
	peerD := testPubKey(t, 3)

	balances := []htlcswitch.UsableBalance{
		directBalance(peerB, 1, 1_200_000),
		directBalance(peerC, 2, 1_200_000),
		directBalance(peerD, 3, 1_200_000),
	}

	stats := routing.NetworkStats{P75: 1_000_000}

	req := SendRequest{
		Amount:      3_200_000,
		Target:      peerE,
		MaxAttempts: 3,
	}

	remaining, descriptors := Split(req.Amount, balances, stats, req, false, nil)

	require.Equal(t, lnwire.MilliSatoshi(0), remaining)
	require.GreaterOrEqual(t, len(descriptors), 3)
	require.Less(t, len(descriptors), 10)

	var total lnwire.MilliSatoshi
	for _, d := range descriptors {
		total += d.FinalPayload.Amount
	}
	require.Equal(t, req.Amount, total)
}

func TestSplitUnderfundedReturnsRemaining(t *testing.T) {
	t.Parallel()

	peerE := testPubKey(t, 9)
	peerB := testPubKey(t, 1)

	balances := []htlcswitch.UsableBalance{
		directBalance(peerB, 1, 500_000),
	}

	stats := routing.NetworkStats{P75: 1_000_000}

	req := SendRequest{
		Amount:      3_000_000,
		Target:      peerE,
		MaxAttempts: 1,
	}

	remaining, descriptors := Split(req.Amount, balances, stats, req, false, nil)

	// The splitter reports the uncovered residue; it is the lifecycle's
	// job to discard any partial plan and spawn nothing when remaining
	// is non-zero.
	require.Greater(t, int64(remaining), int64(0))
	require.Equal(t, req.Amount-remaining, sumAmounts(descriptors))
}

func sumAmounts(descriptors []htlcswitch.ChildDescriptor) lnwire.MilliSatoshi {
	var total lnwire.MilliSatoshi
	for _, d := range descriptors {
		total += d.FinalPayload.Amount
	}
	return total
}

func TestSplitFuzzAlwaysCoversRandomTotals(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	pool := []htlcswitch.UsableBalance{
		directBalance(testPubKey(t, 1), 1, 1_500_000),
		directBalance(testPubKey(t, 2), 2, 1_500_000),
		directBalance(testPubKey(t, 3), 3, 1_500_000),
		directBalance(testPubKey(t, 4), 4, 2_000_000),
	}
	peerE := testPubKey(t, 9)

	for i := 0; i < 200; i++ {
		total := lnwire.MilliSatoshi(1000 + rng.Intn(3_500_000-1000))
		capSat := btcutil.Amount(400 + rng.Intn(2000-400))
		stats := routing.NetworkStats{P75: capSat}

		req := SendRequest{
			Amount:      total,
			Target:      peerE,
			MaxAttempts: 1,
			Params: &RouteParams{
				MaxBaseFee: lnwire.MilliSatoshi(rng.Intn(2000)),
				MaxFeePct:  0.01,
			},
		}

		remaining, descriptors := Split(total, pool, stats, req, true, rng)

		require.Equal(t, lnwire.MilliSatoshi(0), remaining)
		require.NotEmpty(t, descriptors)

		var sum lnwire.MilliSatoshi
		for _, d := range descriptors {
			sum += d.FinalPayload.Amount
		}
		require.Equal(t, total, sum)
	}
}
