package mpp

import "github.com/lightninglabs/mppcoord/htlcswitch"

// balanceTooLowMessage is the LocalFailure message emitted when INIT's
// splitter cannot place the full requested amount. Its exact text is
// load-bearing: it is how a caller distinguishes this precondition failure
// from any other LocalFailure.
const balanceTooLowMessage = "balance is too low"

// attemptsExhaustedMessage is the LocalFailure message appended when the
// global attempt budget is consumed without a success.
const attemptsExhaustedMessage = "payment attempts exhausted without success"

// unrecoverableLocalMessages lists LocalFailure messages that must never be
// retried, only reported. Every other LocalFailure is retryable.
var unrecoverableLocalMessages = map[string]struct{}{
	balanceTooLowMessage:     {},
	attemptsExhaustedMessage: {},
}

// isFatal reports whether a FailureRecord must abort the lifecycle
// immediately regardless of remaining attempt budget: a recipient-reported
// MPP timeout, or a local precondition that retrying cannot fix.
func isFatal(record htlcswitch.FailureRecord) bool {
	if record.IsRecipientTimeout() {
		return true
	}
	if record.Local != nil {
		_, unrecoverable := unrecoverableLocalMessages[record.Local.Message]
		return unrecoverable
	}
	return false
}

// isRetryable reports whether a FailureRecord leaves room to retry the
// missing amount: every RemoteFailure and UnreadableRemoteFailure is
// retryable except the fatal recipient-timeout case, and every LocalFailure
// is retryable except the named unrecoverable preconditions.
func isRetryable(record htlcswitch.FailureRecord) bool {
	return !isFatal(record)
}

// aggregateFailures appends newRecords to failures in arrival order,
// reporting whether any of the new records is fatal and must abort the
// lifecycle regardless of remaining attempt budget. Duplicates are kept:
// the failure list is a log, not a set.
func aggregateFailures(failures []htlcswitch.FailureRecord, newRecords []htlcswitch.FailureRecord) ([]htlcswitch.FailureRecord, bool) {
	failures = append(failures, newRecords...)

	for _, record := range newRecords {
		if isFatal(record) {
			return failures, true
		}
	}
	return failures, false
}
