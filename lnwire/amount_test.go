package lnwire

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

func TestMilliSatoshiConversion(t *testing.T) {
	t.Parallel()

	amt := NewMSatFromSatoshis(btcutil.Amount(5))
	require.Equal(t, MilliSatoshi(5000), amt)
	require.Equal(t, btcutil.Amount(5), amt.ToSatoshis())
}

func TestMilliSatoshiTruncation(t *testing.T) {
	t.Parallel()

	amt := MilliSatoshi(1999)
	require.Equal(t, btcutil.Amount(1), amt.ToSatoshis())
}
