package htlcswitch

import (
	"testing"

	"github.com/lightninglabs/mppcoord/lnwire"
	"github.com/stretchr/testify/require"
)

func TestFailureRecordIsRecipientTimeout(t *testing.T) {
	t.Parallel()

	timeout := RemoteFailureRecord(RoutePrefix{}, &lnwire.FailMPPTimeoutMsg{})
	require.True(t, timeout.IsRecipientTimeout())

	other := RemoteFailureRecord(RoutePrefix{}, &lnwire.FailTemporaryChannelFailureMsg{})
	require.False(t, other.IsRecipientTimeout())

	local := LocalFailureRecord("balance is too low")
	require.False(t, local.IsRecipientTimeout())

	unreadable := UnreadableFailureRecord(RoutePrefix{})
	require.False(t, unreadable.IsRecipientTimeout())
}

func TestFailureRecordError(t *testing.T) {
	t.Parallel()

	local := LocalFailureRecord("boom")
	require.Equal(t, "boom", local.Error())
}

func TestChildIDUnique(t *testing.T) {
	t.Parallel()

	a := NewChildID()
	b := NewChildID()
	require.NotEqual(t, a, b)
	require.NotEmpty(t, a.String())
}
