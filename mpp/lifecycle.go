package mpp

import (
	"context"
	"math/rand"

	"github.com/davecgh/go-spew/spew"
	"github.com/lightninglabs/mppcoord/chainntfs"
	"github.com/lightninglabs/mppcoord/htlcswitch"
	"github.com/lightninglabs/mppcoord/routing"
)

// lifecycleState is the tagged state a Lifecycle actor occupies. It mirrors
// the state names used in conversation about the coordinator but is never
// exposed as a string outside of logging.
type lifecycleState int

const (
	stateInit lifecycleState = iota
	stateInProgress
	stateAborted
	stateSucceeded
)

func (s lifecycleState) String() string {
	switch s {
	case stateInit:
		return "INIT"
	case stateInProgress:
		return "IN_PROGRESS"
	case stateAborted:
		return "ABORTED"
	case stateSucceeded:
		return "SUCCEEDED"
	default:
		return "UNKNOWN"
	}
}

// Lifecycle is the single-threaded cooperative actor coordinating one
// payment from SendRequest to terminal event. It owns no lock: every field
// is touched only from its own run goroutine, the same discipline the
// switch's htlcForwarder loop uses for its own mutable state.
type Lifecycle struct {
	cfg      *Config
	bus      *EventBus
	rng      *rand.Rand
	registry *htlcswitch.ChildSupervisorRegistry

	state             lifecycleState
	req               SendRequest
	remainingAttempts int
	failures          []htlcswitch.FailureRecord
	parts             []htlcswitch.PartialPayment
	preimage          [32]byte

	// height is the most recently observed chain tip, used to stamp each
	// spawned child's final CLTV expiry. It is updated only from epochs,
	// read only from run, so it needs no lock.
	height int32
	epochs <-chan *chainntfs.BlockEpoch

	sendReq chan SendRequest
	result  chan TerminalEvent
	quit    chan struct{}
}

// NewLifecycle constructs a Lifecycle ready to accept exactly one
// SendRequest. cfg must already have been validated.
func NewLifecycle(cfg *Config, bus *EventBus, rng *rand.Rand) *Lifecycle {
	registry := htlcswitch.NewChildSupervisorRegistry(cfg.SpawnChild)
	registry.SetTimeout(cfg.ChildTimeout)

	return &Lifecycle{
		cfg:      cfg,
		bus:      bus,
		rng:      rng,
		registry: registry,
		sendReq:  make(chan SendRequest, 1),
		result:   make(chan TerminalEvent, 1),
		quit:     make(chan struct{}),
	}
}

// Send delivers req to the actor and returns the channel the caller should
// read the single terminal event from. Send may be called at most once per
// Lifecycle; a second call is ignored (INIT only ever receives one
// SendRequest).
func (l *Lifecycle) Send(req SendRequest) <-chan TerminalEvent {
	select {
	case l.sendReq <- req:
	default:
	}
	return l.result
}

// Start launches the actor's run loop in its own goroutine. It first
// registers for block epoch notifications so descendant children get an
// accurate final CLTV expiry; a registration failure is logged and the
// lifecycle falls back to stamping height zero.
func (l *Lifecycle) Start() {
	epochEvent, err := l.cfg.ChainNotifier.RegisterBlockEpochNtfn()
	if err != nil {
		log.Errorf("Unable to register for block epoch notifications: %v", err)
	} else {
		l.epochs = epochEvent.Epochs
	}

	go l.run()
}

// Stop tears down the actor and its child registry without waiting for any
// outcome. Used for caller-initiated shutdown; it is not how a lifecycle
// normally terminates.
func (l *Lifecycle) Stop() {
	close(l.quit)
	l.registry.Stop()
}

func (l *Lifecycle) run() {
	for {
		select {
		case req := <-l.sendReq:
			if l.state != stateInit {
				log.Warnf("Ignoring repeated SendRequest for hash %v",
					req.PaymentHash)
				continue
			}
			l.handleSendRequest(req)

		case raw, ok := <-l.registry.Outcomes():
			if !ok {
				return
			}
			l.handleOutcome(raw.(htlcswitch.ChildOutcome))

		case epoch := <-l.epochs:
			l.height = epoch.Height

		case <-l.quit:
			return
		}

		if l.terminal() && l.registry.NumPending() == 0 {
			l.emitTerminal()
			return
		}
	}
}

// terminal reports whether the state machine has reached a terminal
// decision (the decision may still be waiting on outstanding children).
func (l *Lifecycle) terminal() bool {
	return l.state == stateAborted || l.state == stateSucceeded
}

// handleSendRequest implements the INIT transition: resolve NetworkStats
// and UsableBalances, split the request, and either abort outright for an
// underfunded plan or spawn the initial wave of children.
func (l *Lifecycle) handleSendRequest(req SendRequest) {
	l.req = req
	ctx := context.Background()

	stats, ok := l.cfg.Router.GetNetworkStats(ctx)
	for !ok {
		if err := l.cfg.Router.TickComputeNetworkStats(ctx); err != nil {
			log.Errorf("Unable to recompute network stats: %v", err)
		}
		stats, ok = l.cfg.Router.GetNetworkStats(ctx)
	}

	balances, err := l.cfg.Relayer.GetUsableBalances(ctx)
	if err != nil {
		log.Errorf("Unable to fetch usable balances: %v", err)
		l.failures = append(l.failures, htlcswitch.LocalFailureRecord(balanceTooLowMessage))
		l.state = stateAborted
		return
	}

	splitAttempts.Inc()
	remaining, descriptors := Split(
		req.Amount, balances, *stats, req, req.RouteParams().Randomize, l.rng,
	)
	if remaining > 0 {
		log.Debugf("Splitter could not place %v of %v for hash %v, "+
			"aborting without spawning any child", remaining, req.Amount,
			req.PaymentHash)
		l.failures = append(l.failures, htlcswitch.LocalFailureRecord(balanceTooLowMessage))
		l.state = stateAborted
		return
	}

	l.remainingAttempts = req.MaxAttempts - 1
	l.spawnAll(descriptors)
	l.state = stateInProgress
}

// handleOutcome implements the IN_PROGRESS/ABORTED/SUCCEEDED transitions on
// a single child outcome.
func (l *Lifecycle) handleOutcome(outcome htlcswitch.ChildOutcome) {
	desc, _ := l.registry.Descriptor(outcome.ChildID)
	l.registry.Remove(outcome.ChildID)

	if !outcome.Succeeded() {
		log.Debugf("Child %v reported failure while lifecycle is %v: %v",
			outcome.ChildID, l.state, spew.Sdump(outcome.Failures))
	}

	switch l.state {
	case stateInProgress:
		l.handleOutcomeInProgress(desc, outcome)
	case stateSucceeded:
		l.handleOutcomeSucceeded(outcome)
	case stateAborted:
		l.handleOutcomeAborted(outcome)
	}
}

func (l *Lifecycle) handleOutcomeInProgress(desc htlcswitch.ChildDescriptor, outcome htlcswitch.ChildOutcome) {
	if outcome.Succeeded() {
		l.preimage = outcome.Preimage
		l.parts = append(l.parts, outcome.Part)
		l.state = stateSucceeded
		return
	}

	failures, fatal := aggregateFailures(l.failures, outcome.Failures)
	l.failures = failures
	if fatal {
		l.state = stateAborted
		return
	}

	missing := desc.Amount()

	l.remainingAttempts--
	retriesConsumed.Inc()
	if l.remainingAttempts < 0 {
		l.failures = append(l.failures, htlcswitch.LocalFailureRecord(attemptsExhaustedMessage))
		l.state = stateAborted
		return
	}

	ctx := context.Background()
	balances, err := l.cfg.Relayer.GetUsableBalances(ctx)
	if err != nil {
		log.Errorf("Unable to fetch usable balances for retry: %v", err)
		l.failures = append(l.failures, htlcswitch.LocalFailureRecord(balanceTooLowMessage))
		l.state = stateAborted
		return
	}

	stats, ok := l.cfg.Router.GetNetworkStats(ctx)
	if !ok {
		stats = &routing.NetworkStats{}
	}

	splitAttempts.Inc()
	remaining, descriptors := Split(
		missing, balances, *stats, l.req, l.req.RouteParams().Randomize, l.rng,
	)

	if remaining > 0 {
		l.failures = append(l.failures, htlcswitch.LocalFailureRecord(balanceTooLowMessage))
		l.state = stateAborted
		return
	}

	l.spawnAll(descriptors)
}

func (l *Lifecycle) handleOutcomeSucceeded(outcome htlcswitch.ChildOutcome) {
	if outcome.Succeeded() {
		l.parts = append(l.parts, outcome.Part)
	}
	// A failure arriving after SUCCEEDED is a recorded recipient-spec
	// violation, not a lifecycle error: ignore it.
}

func (l *Lifecycle) handleOutcomeAborted(outcome htlcswitch.ChildOutcome) {
	if outcome.Succeeded() {
		// No success can have been recorded before ABORTED (the first
		// one always promotes IN_PROGRESS straight to SUCCEEDED), so
		// a late preimage is the only one this lifecycle will ever
		// see. Its own fee is the only fee attributed to the payment.
		l.preimage = outcome.Preimage
		l.parts = []htlcswitch.PartialPayment{outcome.Part}
		l.state = stateSucceeded
		return
	}

	failures, _ := aggregateFailures(l.failures, outcome.Failures)
	l.failures = failures
}

// spawnAll stamps each descriptor's final CLTV expiry against the most
// recently observed chain tip and hands it to the registry. Expiry
// computation lives here rather than in Split because it depends on chain
// state the splitter has no business touching.
func (l *Lifecycle) spawnAll(descriptors []htlcswitch.ChildDescriptor) {
	expiry := uint32(l.height) + 1 + uint32(l.req.FinalCLTVDelta())

	for _, d := range descriptors {
		d.FinalPayload.Expiry = expiry
		l.registry.Spawn(d)
	}
}

func (l *Lifecycle) emitTerminal() {
	var event TerminalEvent
	switch l.state {
	case stateSucceeded:
		event = TerminalEvent{Sent: &PaymentSent{
			PaymentHash: l.req.PaymentHash,
			Preimage:    l.preimage,
			Parts:       l.parts,
		}}
		paymentsSucceeded.Inc()

	case stateAborted:
		event = TerminalEvent{Failed: &PaymentFailed{
			PaymentHash: l.req.PaymentHash,
			Failures:    l.failures,
		}}
		paymentsFailed.Inc()
	}

	l.result <- event
	l.bus.Publish(l.req.PaymentHash, event)
}
