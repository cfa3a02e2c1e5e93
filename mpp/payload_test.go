package mpp

import (
	"testing"

	"github.com/lightninglabs/mppcoord/htlcswitch"
	"github.com/lightninglabs/mppcoord/lnwire"
	"github.com/stretchr/testify/require"
)

func TestFinalPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	want := htlcswitch.FinalPayload{
		Amount:        500_000,
		TotalAmount:   3_200_000,
		Expiry:        800_123,
		PaymentSecret: [32]byte{1, 2, 3, 4},
	}

	data, err := EncodeFinalPayload(want)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	got, err := DecodeFinalPayload(data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFinalPayloadTotalAmountConstantAcrossChildren(t *testing.T) {
	t.Parallel()

	total := lnwire.MilliSatoshi(3_200_000)
	a := htlcswitch.FinalPayload{Amount: 1_000_000, TotalAmount: total}
	b := htlcswitch.FinalPayload{Amount: 2_200_000, TotalAmount: total}

	encA, err := EncodeFinalPayload(a)
	require.NoError(t, err)
	encB, err := EncodeFinalPayload(b)
	require.NoError(t, err)

	decA, err := DecodeFinalPayload(encA)
	require.NoError(t, err)
	decB, err := DecodeFinalPayload(encB)
	require.NoError(t, err)

	require.Equal(t, decA.TotalAmount, decB.TotalAmount)
}
