package htlcswitch

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/google/uuid"
	"github.com/lightninglabs/mppcoord/lnwire"
)

// ChildID universally identifies one child HTLC attempt spawned by the
// coordinator. Generated fresh per descriptor by the registry, backed by
// google/uuid so the identifier is unique without any coordination between
// retries or coordinators.
type ChildID uuid.UUID

// String returns the canonical textual representation of the ID.
func (c ChildID) String() string {
	return uuid.UUID(c).String()
}

// NewChildID returns a fresh, universally unique child identifier.
func NewChildID() ChildID {
	return ChildID(uuid.New())
}

// FinalPayload is the payload carried by the final hop of one child HTLC.
// TotalAmount is identical across every child of one lifecycle so the
// recipient can assemble the MPP set.
type FinalPayload struct {
	// Amount is the amount this specific HTLC delivers to the recipient.
	Amount lnwire.MilliSatoshi

	// TotalAmount is the sum of all HTLCs belonging to this payment's
	// MPP set; equal to the original SendRequest amount on every child.
	TotalAmount lnwire.MilliSatoshi

	// Expiry is the absolute block height at which this HTLC expires.
	Expiry uint32

	// PaymentSecret is the invoice's nonce, identical across all
	// children of one lifecycle.
	PaymentSecret [32]byte
}

// RoutePrefix is the first hop the coordinator dictates for a child
// attempt: self to a specific peer, via a specific channel and its
// currently advertised forwarding policy. The remainder of the route to the
// recipient is completed by a router collaborator, out of scope here.
type RoutePrefix struct {
	// PeerPubKey is the public key of the first-hop peer.
	PeerPubKey *btcec.PublicKey

	// ChannelID is the short channel ID of the first-hop channel.
	ChannelID uint64

	// ChannelUpdate is the forwarding policy in effect on that channel
	// at the time the descriptor was built.
	ChannelUpdate ChannelUpdate
}

// ChildDescriptor is one intended HTLC attempt produced by the splitter.
type ChildDescriptor struct {
	// PaymentHash is the hash shared by every child of this lifecycle.
	PaymentHash chainhash.Hash

	// Target is the final recipient's public key.
	Target *btcec.PublicKey

	// FinalPayload is the payload carried to the recipient.
	FinalPayload FinalPayload

	// MaxAttempts is the attempt budget visible to this specific child:
	// the SendRequest's MaxAttempts, the same on every child, not reduced
	// by retries the lifecycle has already consumed.
	MaxAttempts int

	// RoutePrefix is the first hop this child must take.
	RoutePrefix RoutePrefix
}

// Amount returns the amount this descriptor commits to sending, for
// convenience when summing live descriptors against the payment total.
func (d ChildDescriptor) Amount() lnwire.MilliSatoshi {
	return d.FinalPayload.Amount
}

// PartialPayment is a child that resolved successfully.
type PartialPayment struct {
	// ChildID identifies the resolved child attempt.
	ChildID ChildID

	// Amount is the amount delivered by this part.
	Amount lnwire.MilliSatoshi

	// Fee is the routing fee paid for this part.
	Fee lnwire.MilliSatoshi

	// FirstHopChannelID is the channel this part departed over.
	FirstHopChannelID uint64

	// Route, if known, is a description of the full path this part
	// took. Left nil when the route is not retained (non-goal: route
	// bookkeeping beyond the first hop belongs to the router).
	Route []byte
}

// FailureRecord is a tagged variant describing why a child failed.
// Exactly one of the Local/Remote/Unreadable fields is populated.
type FailureRecord struct {
	// Local is populated for a self-originated failure.
	Local *LocalFailure

	// Remote is populated for a peer-decrypted onion failure.
	Remote *RemoteFailure

	// Unreadable is populated when the onion failure could not be
	// decrypted.
	Unreadable *UnreadableRemoteFailure
}

// LocalFailure is a self-originated failure, e.g. a local precondition not
// being met or an internal error talking to a peer.
type LocalFailure struct {
	// Message describes the failure.
	Message string
}

func (f LocalFailure) Error() string { return f.Message }

// RemoteFailure is a decrypted onion failure reported by a node somewhere
// along the route.
type RemoteFailure struct {
	// RoutePrefix is the first hop the failing child had taken.
	RoutePrefix RoutePrefix

	// FailureMessage is the decrypted failure payload.
	FailureMessage lnwire.FailureMessage
}

func (f RemoteFailure) Error() string {
	return f.FailureMessage.Error()
}

// UnreadableRemoteFailure is an onion failure that could not be decrypted
// (e.g. a malformed or replayed error blob).
type UnreadableRemoteFailure struct {
	// RoutePrefix is the first hop the failing child had taken.
	RoutePrefix RoutePrefix
}

func (f UnreadableRemoteFailure) Error() string {
	return "unreadable remote failure"
}

// LocalFailureRecord is a convenience constructor for a FailureRecord
// wrapping a LocalFailure.
func LocalFailureRecord(message string) FailureRecord {
	return FailureRecord{Local: &LocalFailure{Message: message}}
}

// RemoteFailureRecord is a convenience constructor for a FailureRecord
// wrapping a RemoteFailure.
func RemoteFailureRecord(prefix RoutePrefix, msg lnwire.FailureMessage) FailureRecord {
	return FailureRecord{Remote: &RemoteFailure{RoutePrefix: prefix, FailureMessage: msg}}
}

// UnreadableFailureRecord is a convenience constructor for a FailureRecord
// wrapping an UnreadableRemoteFailure.
func UnreadableFailureRecord(prefix RoutePrefix) FailureRecord {
	return FailureRecord{Unreadable: &UnreadableRemoteFailure{RoutePrefix: prefix}}
}

// Error implements the error interface over whichever variant is populated,
// useful for logging a FailureRecord directly.
func (f FailureRecord) Error() string {
	switch {
	case f.Local != nil:
		return f.Local.Error()
	case f.Remote != nil:
		return f.Remote.Error()
	case f.Unreadable != nil:
		return f.Unreadable.Error()
	default:
		return "empty failure record"
	}
}

// IsRecipientTimeout reports whether this record is the onion failure
// signaling the recipient gave up waiting for the rest of the MPP set,
// which moves the lifecycle to ABORTED at once with no further retry;
// outstanding children are still awaited before the terminal event.
func (f FailureRecord) IsRecipientTimeout() bool {
	return f.Remote != nil && f.Remote.FailureMessage != nil &&
		f.Remote.FailureMessage.Code() == lnwire.FailMPPTimeout
}
