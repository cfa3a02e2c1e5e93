package mpp

import (
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/mppcoord/htlcswitch"
	"github.com/lightninglabs/mppcoord/lnwire"
)

// PaymentSent is the terminal event emitted when a lifecycle reaches
// SUCCEEDED and has no outstanding children left.
type PaymentSent struct {
	PaymentHash chainhash.Hash
	Preimage    [32]byte
	Parts       []htlcswitch.PartialPayment
}

// Amount returns the sum of all settled parts.
func (e PaymentSent) Amount() lnwire.MilliSatoshi {
	var total lnwire.MilliSatoshi
	for _, p := range e.Parts {
		total += p.Amount
	}
	return total
}

// Fee returns the aggregate routing fee paid across all settled parts.
func (e PaymentSent) Fee() lnwire.MilliSatoshi {
	var total lnwire.MilliSatoshi
	for _, p := range e.Parts {
		total += p.Fee
	}
	return total
}

// PaymentFailed is the terminal event emitted when a lifecycle reaches
// ABORTED and has no outstanding children left.
type PaymentFailed struct {
	PaymentHash chainhash.Hash
	Failures    []htlcswitch.FailureRecord
}

// TerminalEvent is the tagged union delivered to a payment's subscriber and
// published on the event bus. Exactly one field is populated.
type TerminalEvent struct {
	Sent   *PaymentSent
	Failed *PaymentFailed
}

// EventBus fans a lifecycle's single terminal event out to every
// subscriber registered for that payment hash, plus anyone subscribed to
// every payment. It holds no history: a subscriber that registers after a
// lifecycle has already terminated never receives that event.
type EventBus struct {
	mu   sync.Mutex
	subs map[chainhash.Hash][]chan<- TerminalEvent
	all  []chan<- TerminalEvent
}

// NewEventBus returns an empty EventBus.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[chainhash.Hash][]chan<- TerminalEvent),
	}
}

// Subscribe returns a channel that receives the terminal event for hash, if
// and when that payment's lifecycle terminates, and a cancel function that
// unregisters it. The channel is closed-over internally; callers never
// write to it.
func (b *EventBus) Subscribe(hash chainhash.Hash) (<-chan TerminalEvent, func()) {
	ch := make(chan TerminalEvent, 1)

	b.mu.Lock()
	b.subs[hash] = append(b.subs[hash], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subs[hash]
		for i, s := range subs {
			if s == ch {
				b.subs[hash] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(b.subs[hash]) == 0 {
			delete(b.subs, hash)
		}
	}
	return ch, cancel
}

// SubscribeAll registers ch to receive every terminal event published on
// the bus, regardless of payment hash.
func (b *EventBus) SubscribeAll(ch chan<- TerminalEvent) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.all = append(b.all, ch)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		for i, s := range b.all {
			if s == ch {
				b.all = append(b.all[:i], b.all[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers event to every subscriber of its payment hash and every
// whole-bus subscriber. Delivery is non-blocking: a subscriber with a full
// channel does not stall the publisher or other subscribers.
func (b *EventBus) Publish(hash chainhash.Hash, event TerminalEvent) {
	b.mu.Lock()
	recipients := make([]chan<- TerminalEvent, 0, len(b.subs[hash])+len(b.all))
	recipients = append(recipients, b.subs[hash]...)
	recipients = append(recipients, b.all...)
	b.mu.Unlock()

	for _, ch := range recipients {
		select {
		case ch <- event:
		default:
			log.Warnf("Event bus subscriber for %v is not keeping up, "+
				"dropping terminal event", hash)
		}
	}
}
