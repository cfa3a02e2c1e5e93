package htlcswitch

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lightninglabs/mppcoord/lnwire"
)

// ChannelUpdate is a peer's advertised forwarding policy for one channel:
// its fee schedule, CLTV delta, and HTLC size bounds. The field layout
// mirrors channeldb.ChannelEdgePolicy (fee base/rate, time-lock delta,
// minimum HTLC), generalized here with an explicit HtlcMaximumMsat since the
// splitter must respect an upper bound on any single fragment.
type ChannelUpdate struct {
	// TimeLockDelta is the number of blocks this node subtracts from an
	// incoming HTLC's expiry when forwarding it onward.
	TimeLockDelta uint16

	// MinHTLC is the smallest value HTLC this channel partner will
	// forward.
	MinHTLC lnwire.MilliSatoshi

	// MaxHTLC is the largest value HTLC this channel partner will
	// forward in a single HTLC.
	MaxHTLC lnwire.MilliSatoshi

	// FeeBaseMSat is the base fee, in millisatoshis, charged regardless
	// of the forwarded amount.
	FeeBaseMSat lnwire.MilliSatoshi

	// FeeProportionalMillionths is the fee rate, in millionths of the
	// forwarded amount, charged for forwarding.
	FeeProportionalMillionths lnwire.MilliSatoshi
}

// Fee computes the forwarding fee this channel-update would charge for
// forwarding the given amount across the first hop.
func (c ChannelUpdate) Fee(amt lnwire.MilliSatoshi) lnwire.MilliSatoshi {
	proportional := (uint64(amt) * uint64(c.FeeProportionalMillionths)) / 1_000_000
	return c.FeeBaseMSat + lnwire.MilliSatoshi(proportional)
}

// UsableBalance is a per-channel snapshot of the sender's current ability to
// push an HTLC to a given peer, as reported by the relayer.
type UsableBalance struct {
	// PeerPubKey is the public key of the remote channel partner.
	PeerPubKey *btcec.PublicKey

	// ChannelID is the short channel ID identifying this channel.
	ChannelID uint64

	// Sendable is the amount presently available to send over this
	// channel, net of reserves and amounts already in flight.
	Sendable lnwire.MilliSatoshi

	// InFlight is the amount currently committed to outstanding HTLCs on
	// this channel.
	InFlight lnwire.MilliSatoshi

	// Public indicates whether the channel has been announced to the
	// network (and is thus eligible to carry forwarded, not just
	// locally-originated, traffic).
	Public bool

	// Update is the channel's advertised forwarding policy.
	Update ChannelUpdate
}

// Available returns the largest single HTLC this channel could presently
// carry, respecting both the current sendable balance and the channel's
// advertised maximum.
func (b UsableBalance) Available() lnwire.MilliSatoshi {
	if b.Update.MaxHTLC != 0 && b.Update.MaxHTLC < b.Sendable {
		return b.Update.MaxHTLC
	}
	return b.Sendable
}
