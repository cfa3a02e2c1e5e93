// Package mpp coordinates a single multi-part payment from a SendRequest
// to its terminal PaymentSent or PaymentFailed event: splitting the amount
// across usable channel balances (Split), supervising the resulting child
// HTLC attempts (Lifecycle), and classifying their failures for retry
// (isFatal/isRetryable).
package mpp
