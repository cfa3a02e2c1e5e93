package htlcswitch

// ChildOutcome is the single terminal message a ChildWorker reports back to
// the coordinator. Either the success fields (Preimage, Part) or Failures
// is populated, never both.
type ChildOutcome struct {
	// ChildID identifies which child attempt this outcome belongs to.
	ChildID ChildID

	// Preimage is populated on success.
	Preimage [32]byte

	// Part is populated on success.
	Part PartialPayment

	// Failures is populated on failure. It may carry more than one
	// record if the attempt passed through internal retries the child
	// worker itself performs before giving up (e.g. route-suffix
	// reselection); the coordinator treats the whole slice as one
	// terminal failure report.
	Failures []FailureRecord
}

// Succeeded reports whether this outcome represents a successful HTLC
// resolution.
func (o ChildOutcome) Succeeded() bool {
	return len(o.Failures) == 0
}

// ChildWorker is the black-box contract a spawned child attempt must
// satisfy: take a descriptor, attempt to send an HTLC along the route
// prefix extended by a router-computed suffix, and report exactly one
// terminal outcome on Outcome(). The concrete implementation (the actual
// wire send, route-suffix computation, onion construction) is an external
// collaborator, out of scope here.
type ChildWorker interface {
	// Descriptor returns the descriptor this worker was spawned with.
	Descriptor() ChildDescriptor

	// Outcome returns the channel the worker will send its single
	// terminal result on.
	Outcome() <-chan ChildOutcome

	// Cancel signals the worker it may stop trying, used only for
	// resource cleanup; the coordinator never blocks on Cancel and
	// still waits for Outcome() rather than canceling on its own
	// terminal decision.
	Cancel()
}

// ChildSpawnFunc is the injectable capability the registry uses to create a
// new ChildWorker for a descriptor. Exposing spawning as a parameter, rather
// than a hard dependency on one concrete worker type, lets tests substitute
// deterministic doubles.
type ChildSpawnFunc func(ChildDescriptor) ChildWorker
