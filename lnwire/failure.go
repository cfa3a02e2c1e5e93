package lnwire

import "fmt"

// FailCode identifies the type of onion failure carried by a FailureMessage.
// The numeric values mirror the well-known BOLT #4 failure codes; only the
// subset relevant to an MPP sender's retry decision is represented here
// (onion construction and full code-point parsing are out of scope).
type FailCode uint16

const (
	// FailTemporaryChannelFailure indicates a forwarding node could not
	// forward the HTLC at this time, generally due to a lack of
	// available liquidity on the outgoing link. Retryable.
	FailTemporaryChannelFailure FailCode = 0x1007

	// FailIncorrectPaymentAmount is returned by the final node when the
	// amount of the HTLC does not match what it was expecting. Retryable
	// (the sender may re-split with a different fragment size).
	FailIncorrectPaymentAmount FailCode = 0x4010

	// FailFinalExpiryTooSoon is returned by the final node when the CLTV
	// expiry carried by the HTLC is below what it will accept. Retryable.
	FailFinalExpiryTooSoon FailCode = 0x0011

	// FailMPPTimeout is returned by the final node when it gives up on
	// assembling the full MPP set because the set failed to complete in
	// time. This is the "timeout-from-recipient" failure: once observed,
	// no further retry can help, so it is fatal to the lifecycle.
	FailMPPTimeout FailCode = 0x0017

	// FailUnknownPaymentHash is returned by the final node when the
	// payment hash is unrecognized (e.g. invoice already settled or
	// expired). Retryable from the sender's point of view, since it
	// cannot locally distinguish this from a transient routing issue.
	FailUnknownPaymentHash FailCode = 0x400F
)

// String returns a human-readable label for the failure code.
func (c FailCode) String() string {
	switch c {
	case FailTemporaryChannelFailure:
		return "TemporaryChannelFailure"
	case FailIncorrectPaymentAmount:
		return "IncorrectPaymentAmount"
	case FailFinalExpiryTooSoon:
		return "FinalExpiryTooSoon"
	case FailMPPTimeout:
		return "MPPTimeout"
	case FailUnknownPaymentHash:
		return "UnknownPaymentHash"
	default:
		return fmt.Sprintf("FailCode(%#x)", uint16(c))
	}
}

// FailureMessage is a decrypted onion failure message as reported by a node
// somewhere along a route. It is the payload carried by a RemoteFailure.
type FailureMessage interface {
	// Code returns the well-known failure code this message represents.
	Code() FailCode

	// Error implements the error interface so a FailureMessage can be
	// logged or wrapped directly.
	Error() string
}

// FailTemporaryChannelFailureMsg is returned when an intermediate hop cannot
// currently forward the HTLC.
type FailTemporaryChannelFailureMsg struct{}

// Code returns FailTemporaryChannelFailure.
func (f *FailTemporaryChannelFailureMsg) Code() FailCode { return FailTemporaryChannelFailure }

func (f *FailTemporaryChannelFailureMsg) Error() string {
	return "temporary channel failure"
}

// FailIncorrectPaymentAmountMsg is returned by the final node when the
// delivered amount did not match its expectation.
type FailIncorrectPaymentAmountMsg struct{}

// Code returns FailIncorrectPaymentAmount.
func (f *FailIncorrectPaymentAmountMsg) Code() FailCode { return FailIncorrectPaymentAmount }

func (f *FailIncorrectPaymentAmountMsg) Error() string {
	return "incorrect payment amount"
}

// FailFinalExpiryTooSoonMsg is returned by the final node when the CLTV
// expiry delivered is too close to the current height.
type FailFinalExpiryTooSoonMsg struct{}

// Code returns FailFinalExpiryTooSoon.
func (f *FailFinalExpiryTooSoonMsg) Code() FailCode { return FailFinalExpiryTooSoon }

func (f *FailFinalExpiryTooSoonMsg) Error() string {
	return "final expiry too soon"
}

// FailMPPTimeoutMsg is returned by the final node when it times out waiting
// for the remaining parts of an MPP set.
type FailMPPTimeoutMsg struct{}

// Code returns FailMPPTimeout.
func (f *FailMPPTimeoutMsg) Code() FailCode { return FailMPPTimeout }

func (f *FailMPPTimeoutMsg) Error() string {
	return "timeout waiting for other parts of a multi-part payment"
}

// FailUnknownPaymentHashMsg is returned by the final node when the payment
// hash is not recognized.
type FailUnknownPaymentHashMsg struct{}

// Code returns FailUnknownPaymentHash.
func (f *FailUnknownPaymentHashMsg) Code() FailCode { return FailUnknownPaymentHash }

func (f *FailUnknownPaymentHashMsg) Error() string {
	return "unknown payment hash"
}
