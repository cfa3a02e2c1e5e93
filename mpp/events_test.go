package mpp

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func TestEventBusDeliversToSubscriber(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	hash := chainhash.Hash{1, 2, 3}

	ch, cancel := bus.Subscribe(hash)
	defer cancel()

	want := TerminalEvent{Sent: &PaymentSent{PaymentHash: hash}}
	bus.Publish(hash, want)

	select {
	case got := <-ch:
		require.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for terminal event")
	}
}

func TestEventBusCancelStopsDelivery(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	hash := chainhash.Hash{4, 5, 6}

	ch, cancel := bus.Subscribe(hash)
	cancel()

	bus.Publish(hash, TerminalEvent{Sent: &PaymentSent{PaymentHash: hash}})

	select {
	case _, ok := <-ch:
		require.False(t, ok, "channel should not receive after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBusSubscribeAllReceivesEveryHash(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	all := make(chan TerminalEvent, 2)
	cancel := bus.SubscribeAll(all)
	defer cancel()

	h1 := chainhash.Hash{1}
	h2 := chainhash.Hash{2}
	bus.Publish(h1, TerminalEvent{Sent: &PaymentSent{PaymentHash: h1}})
	bus.Publish(h2, TerminalEvent{Sent: &PaymentSent{PaymentHash: h2}})

	require.Len(t, all, 2)
}
