package lnwire

import (
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
)

// MilliSatoshi is a thousandth of a satoshi. It is the unit used to
// denominate the amount carried by an HTLC, as channel updates and fee
// schedules are expressed with sub-satoshi precision.
type MilliSatoshi uint64

// NewMSatFromSatoshis creates a new MilliSatoshi instance from a target
// amount of satoshis.
func NewMSatFromSatoshis(sat btcutil.Amount) MilliSatoshi {
	return MilliSatoshi(sat * 1000)
}

// ToSatoshis converts the target MilliSatoshi amount to satoshis. Any
// sub-satoshi amount is truncated.
func (m MilliSatoshi) ToSatoshis() btcutil.Amount {
	return btcutil.Amount(m / 1000)
}

// String returns the string representation of the MilliSatoshi amount.
func (m MilliSatoshi) String() string {
	return strconv.FormatUint(uint64(m), 10) + " mSAT"
}
