package mpp

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/mppcoord/htlcswitch"
	"github.com/lightninglabs/mppcoord/lnwire"
	"github.com/lightninglabs/mppcoord/zpay32"
)

// RouteParams carries the caller's constraints on how a payment may be
// routed: whether fragment ordering should be randomized, the fee budget,
// and route-shape limits. All fields are optional; a nil *RouteParams on a
// SendRequest is equivalent to DefaultRouteParams().
type RouteParams struct {
	// Randomize controls whether the splitter shuffles eligible channels
	// instead of ordering them deterministically by capacity.
	Randomize bool

	// MaxBaseFee is the maximum flat fee, in millisatoshis, tolerated
	// per child attempt.
	MaxBaseFee lnwire.MilliSatoshi

	// MaxFeePct is the maximum proportional fee tolerated per child
	// attempt, expressed as a fraction (e.g. 0.003 for 0.3%).
	MaxFeePct float64

	// MaxRouteLength bounds the number of hops a child's route,
	// including the router-computed suffix, may take.
	MaxRouteLength int

	// MaxCLTVExpiryDelta bounds the total CLTV delta a child's route may
	// accumulate.
	MaxCLTVExpiryDelta uint16

	// AssistedRoutes optionally lists first hops the caller already
	// knows can reach the recipient (e.g. from a private-channel hint in
	// the invoice).
	AssistedRoutes []htlcswitch.RoutePrefix
}

// DefaultRouteParams returns conservative route parameters used when a
// SendRequest does not specify any.
func DefaultRouteParams() RouteParams {
	return RouteParams{
		MaxBaseFee:         1000,
		MaxFeePct:          0.003,
		MaxRouteLength:     20,
		MaxCLTVExpiryDelta: 2016,
	}
}

// MaxFeeBudget returns the maximum fee, in millisatoshis, tolerated for
// sending the given amount under these route parameters.
func (p RouteParams) MaxFeeBudget(amount lnwire.MilliSatoshi) lnwire.MilliSatoshi {
	proportional := float64(amount) * p.MaxFeePct
	return p.MaxBaseFee + lnwire.MilliSatoshi(proportional)
}

// SendRequest is the caller-supplied, immutable description of one payment
// to make. It is consumed exactly once, at lifecycle INIT.
type SendRequest struct {
	// Amount is the total amount to deliver to the recipient.
	Amount lnwire.MilliSatoshi

	// PaymentHash is shared by every HTLC in the resulting MPP set.
	PaymentHash chainhash.Hash

	// Target is the recipient's public key.
	Target *btcec.PublicKey

	// MaxAttempts is the global attempt budget of the lifecycle: the
	// initial dispatch consumes one unit however many children it spawns,
	// and each retry after a child failure consumes one more.
	MaxAttempts int

	// MinFinalCLTVDelta is the minimum CLTV delta the caller requires on
	// the final hop, overriding the invoice's own value if larger.
	MinFinalCLTVDelta uint16

	// Invoice optionally carries the payment secret and feature bits the
	// recipient advertised.
	Invoice *zpay32.Invoice

	// Params optionally overrides DefaultRouteParams().
	Params *RouteParams
}

// RouteParams returns the request's route parameters, falling back to
// DefaultRouteParams() when unset.
func (r SendRequest) RouteParams() RouteParams {
	if r.Params != nil {
		return *r.Params
	}
	return DefaultRouteParams()
}

// FinalCLTVDelta returns the CLTV delta to apply to the final hop: the
// larger of the caller's explicit minimum and the invoice's own requirement
// (defaulting to zpay32.DefaultFinalCLTVDelta when there is no invoice).
func (r SendRequest) FinalCLTVDelta() uint16 {
	delta := r.MinFinalCLTVDelta

	var invoiceDelta uint16
	if r.Invoice != nil {
		invoiceDelta = uint16(r.Invoice.MinFinalCLTVExpiry())
	} else {
		invoiceDelta = zpay32.DefaultFinalCLTVDelta
	}

	if invoiceDelta > delta {
		delta = invoiceDelta
	}
	return delta
}

// PaymentSecret returns the invoice's payment secret, or the zero value if
// there is no invoice.
func (r SendRequest) PaymentSecret() [32]byte {
	if r.Invoice != nil {
		return r.Invoice.PaymentSecret
	}
	return [32]byte{}
}

// Validate checks the invariants a SendRequest must satisfy before it can
// be accepted at INIT.
func (r SendRequest) Validate() error {
	if r.Amount == 0 {
		return fmt.Errorf("send request amount must be non-zero")
	}
	if r.Target == nil {
		return fmt.Errorf("send request target must be set")
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("send request max attempts must be at least 1")
	}
	return nil
}
