package mpp

import (
	"testing"

	"github.com/lightninglabs/mppcoord/htlcswitch"
	"github.com/lightninglabs/mppcoord/lnwire"
	"github.com/stretchr/testify/require"
)

func TestIsFatalRecipientTimeout(t *testing.T) {
	t.Parallel()

	record := htlcswitch.RemoteFailureRecord(
		htlcswitch.RoutePrefix{}, &lnwire.FailMPPTimeoutMsg{},
	)
	require.True(t, isFatal(record))
	require.False(t, isRetryable(record))
}

func TestIsFatalBalanceTooLowNotRetried(t *testing.T) {
	t.Parallel()

	record := htlcswitch.LocalFailureRecord(balanceTooLowMessage)
	require.True(t, isFatal(record))
}

func TestIsFatalOtherLocalFailureIsRetryable(t *testing.T) {
	t.Parallel()

	record := htlcswitch.LocalFailureRecord("peer disconnected")
	require.False(t, isFatal(record))
	require.True(t, isRetryable(record))
}

func TestIsFatalOtherRemoteFailureIsRetryable(t *testing.T) {
	t.Parallel()

	record := htlcswitch.RemoteFailureRecord(
		htlcswitch.RoutePrefix{}, &lnwire.FailTemporaryChannelFailureMsg{},
	)
	require.False(t, isFatal(record))

	unreadable := htlcswitch.UnreadableFailureRecord(htlcswitch.RoutePrefix{})
	require.False(t, isFatal(unreadable))
}

func TestAggregateFailuresPreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	a := htlcswitch.LocalFailureRecord("a")
	b := htlcswitch.LocalFailureRecord("a")

	failures, fatal := aggregateFailures(nil, []htlcswitch.FailureRecord{a, b})
	require.False(t, fatal)
	require.Len(t, failures, 2)
	require.Equal(t, "a", failures[0].Local.Message)
	require.Equal(t, "a", failures[1].Local.Message)
}

func TestAggregateFailuresReportsFatal(t *testing.T) {
	t.Parallel()

	timeout := htlcswitch.RemoteFailureRecord(
		htlcswitch.RoutePrefix{}, &lnwire.FailMPPTimeoutMsg{},
	)

	_, fatal := aggregateFailures(nil, []htlcswitch.FailureRecord{timeout})
	require.True(t, fatal)
}
