package htlcswitch

import (
	"testing"

	"github.com/lightninglabs/mppcoord/lnwire"
	"github.com/stretchr/testify/require"
)

func TestChannelUpdateFee(t *testing.T) {
	t.Parallel()

	upd := ChannelUpdate{
		FeeBaseMSat:               1000,
		FeeProportionalMillionths: 1000,
	}

	// 1000 base + 0.1% of 2_000_000 = 1000 + 2000 = 3000.
	require.EqualValues(t, 3000, upd.Fee(2_000_000))
}

func TestUsableBalanceAvailableCapsAtMaxHTLC(t *testing.T) {
	t.Parallel()

	bal := UsableBalance{
		Sendable: 5_000_000,
		Update:   ChannelUpdate{MaxHTLC: 1_000_000},
	}
	require.EqualValues(t, lnwire.MilliSatoshi(1_000_000), bal.Available())
}

func TestUsableBalanceAvailableNoMaxSet(t *testing.T) {
	t.Parallel()

	bal := UsableBalance{Sendable: 5_000_000}
	require.EqualValues(t, lnwire.MilliSatoshi(5_000_000), bal.Available())
}
