package htlcswitch

import (
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/queue"
)

// ChildSupervisorRegistry is the in-memory mapping from a live child
// identifier to its descriptor. It holds no state beyond that mapping: the
// spawned ChildWorker is a black box to the registry just as it is to the
// coordinator. Outcomes from every live child are multiplexed onto a single
// mailbox, via queue.ConcurrentQueue, so the lifecycle actor can consume
// them without blocking on any one child.
type ChildSupervisorRegistry struct {
	spawn   ChildSpawnFunc
	timeout time.Duration

	mu      sync.Mutex
	pending map[ChildID]ChildDescriptor

	outcomes *queue.ConcurrentQueue

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewChildSupervisorRegistry creates a registry that spawns workers via the
// given capability function.
func NewChildSupervisorRegistry(spawn ChildSpawnFunc) *ChildSupervisorRegistry {
	r := &ChildSupervisorRegistry{
		spawn:    spawn,
		pending:  make(map[ChildID]ChildDescriptor),
		outcomes: queue.NewConcurrentQueue(50),
		quit:     make(chan struct{}),
	}
	r.outcomes.Start()

	return r
}

// SetTimeout bounds how long the registry waits on a child's own outcome
// before synthesizing a local failure against it. A zero timeout (the
// default) disables this and waits on the child indefinitely.
func (r *ChildSupervisorRegistry) SetTimeout(timeout time.Duration) {
	r.timeout = timeout
}

// Spawn allocates a fresh child identifier, asks the injected spawn
// capability for a worker, and begins forwarding that worker's terminal
// outcome onto the registry's shared mailbox.
func (r *ChildSupervisorRegistry) Spawn(desc ChildDescriptor) ChildID {
	id := NewChildID()
	worker := r.spawn(desc)

	r.mu.Lock()
	r.pending[id] = desc
	r.mu.Unlock()

	log.Debugf("Registry spawned child %v for %v mSAT over chan_id=%v",
		id, desc.Amount(), desc.RoutePrefix.ChannelID)

	r.wg.Add(1)
	go r.forward(id, worker)

	return id
}

// forward waits for exactly one outcome from worker and pushes it onto the
// shared mailbox, stamped with the child's identifier.
func (r *ChildSupervisorRegistry) forward(id ChildID, worker ChildWorker) {
	defer r.wg.Done()

	var timedOut <-chan time.Time
	if r.timeout > 0 {
		timer := time.NewTimer(r.timeout)
		defer timer.Stop()
		timedOut = timer.C
	}

	select {
	case outcome := <-worker.Outcome():
		outcome.ChildID = id

		select {
		case r.outcomes.ChanIn() <- outcome:
		case <-r.quit:
		}

	case <-timedOut:
		worker.Cancel()

		outcome := ChildOutcome{
			ChildID: id,
			Failures: []FailureRecord{
				LocalFailureRecord("child attempt timed out"),
			},
		}
		select {
		case r.outcomes.ChanIn() <- outcome:
		case <-r.quit:
		}

	case <-r.quit:
		worker.Cancel()
	}
}

// Outcomes returns the channel the lifecycle actor should select on to
// receive child outcomes in FIFO arrival order across all live children.
func (r *ChildSupervisorRegistry) Outcomes() <-chan interface{} {
	return r.outcomes.ChanOut()
}

// Remove drops a child from the live mapping once its outcome has been
// absorbed by the lifecycle.
func (r *ChildSupervisorRegistry) Remove(id ChildID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, id)
}

// Descriptor looks up the descriptor a live child was spawned with.
func (r *ChildSupervisorRegistry) Descriptor(id ChildID) (ChildDescriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.pending[id]
	return d, ok
}

// NumPending returns the count of children whose outcome is still
// outstanding.
func (r *ChildSupervisorRegistry) NumPending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

// Stop signals every in-flight forwarder to cancel its worker and release
// the registry's mailbox. It does not wait for children to settle; it only
// stops the registry's own bookkeeping goroutines.
func (r *ChildSupervisorRegistry) Stop() {
	close(r.quit)
	r.wg.Wait()
	r.outcomes.Stop()
}
