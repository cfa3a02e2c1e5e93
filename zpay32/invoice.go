// Package zpay32 carries the slice of a decoded BOLT-11 invoice the payment
// lifecycle coordinator actually consumes: the payment secret, feature bits
// and minimum final CLTV expiry delta. Decoding the bech32 wire format is
// invoice parsing proper, and is treated as an external collaborator's
// responsibility; this package only carries the already-decoded result.
package zpay32

import (
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lightninglabs/mppcoord/lnwire"
)

// DefaultFinalCLTVDelta is the minimum final CLTV expiry delta assumed for
// an invoice that doesn't specify one.
const DefaultFinalCLTVDelta = 9

// FeatureBit is a single feature bit advertised by the recipient in its
// invoice, such as the requirement to carry an MPP payment_data record.
type FeatureBit uint32

const (
	// MPPOptional signals the recipient accepts (but does not require)
	// a multi-part payment.
	MPPOptional FeatureBit = 17

	// MPPRequired signals the recipient requires the payment_data TLV
	// record carrying the payment secret and total amount.
	MPPRequired FeatureBit = 16
)

// FeatureVector is the set of feature bits an invoice advertises.
type FeatureVector map[FeatureBit]struct{}

// HasFeature reports whether the given bit is present in the vector.
func (f FeatureVector) HasFeature(bit FeatureBit) bool {
	_, ok := f[bit]
	return ok
}

// Invoice represents the already-decoded fields of a BOLT-11 invoice that
// are relevant to splitting and dispatching an MPP payment. Unlike the full
// BOLT-11 type, this carries no bech32 codec: it is produced by an external
// invoice-parsing collaborator and handed to the coordinator as-is.
type Invoice struct {
	// PaymentHash is the payment hash carried by the invoice.
	PaymentHash [32]byte

	// MilliSat is the amount requested by the invoice, if any.
	MilliSat *lnwire.MilliSatoshi

	// Destination is the public key of the invoice's issuer.
	Destination *btcec.PublicKey

	// PaymentSecret is the per-invoice nonce the recipient uses to
	// associate arriving HTLCs into one MPP set. It must be identical
	// across every child of one lifecycle.
	PaymentSecret [32]byte

	// Features is the set of feature bits the recipient advertised.
	Features FeatureVector

	// minFinalCLTVExpiry is the delta between the current height and the
	// expiry height of the final HTLC, as specified by the invoice
	// creator. Unexported so callers go through MinFinalCLTVExpiry and
	// get the default when unset.
	minFinalCLTVExpiry *uint64

	// expiry is how long the invoice remains payable, measured from
	// Timestamp. Unexported for the same reason as above.
	expiry *time.Duration

	// Timestamp is when the invoice was created.
	Timestamp time.Time
}

// CLTVExpiry is a functional option that sets the invoice's minimum final
// CLTV expiry delta.
func CLTVExpiry(delta uint64) func(*Invoice) {
	return func(i *Invoice) {
		i.minFinalCLTVExpiry = &delta
	}
}

// Expiry is a functional option that sets how long the invoice is payable
// for. If unset, a default of one hour is assumed.
func Expiry(expiry time.Duration) func(*Invoice) {
	return func(i *Invoice) {
		i.expiry = &expiry
	}
}

// NewInvoice creates an Invoice from its mandatory fields plus any number of
// functional options.
func NewInvoice(paymentHash, paymentSecret [32]byte, timestamp time.Time,
	opts ...func(*Invoice)) *Invoice {

	invoice := &Invoice{
		PaymentHash:   paymentHash,
		PaymentSecret: paymentSecret,
		Timestamp:     timestamp,
		Features:      make(FeatureVector),
	}

	for _, opt := range opts {
		opt(invoice)
	}

	return invoice
}

// MinFinalCLTVExpiry returns the minimum final CLTV expiry delta specified
// by the invoice creator, or DefaultFinalCLTVDelta if unset.
func (invoice *Invoice) MinFinalCLTVExpiry() uint64 {
	if invoice.minFinalCLTVExpiry != nil {
		return *invoice.minFinalCLTVExpiry
	}

	return DefaultFinalCLTVDelta
}

// ExpiresAt returns the absolute time this invoice stops being payable. If no
// expiry was set explicitly, a default of one hour from Timestamp is used.
func (invoice *Invoice) ExpiresAt() time.Time {
	if invoice.expiry != nil {
		return invoice.Timestamp.Add(*invoice.expiry)
	}

	return invoice.Timestamp.Add(time.Hour)
}
