package htlcswitch

import (
	"sync"
	"sync/atomic"
)

// MockChildWorker is a deterministic ChildWorker test double. Tests resolve
// it explicitly via Succeed/Fail rather than it doing any real sending,
// letting lifecycle tests exercise every state transition without a real
// peer on the other end.
type MockChildWorker struct {
	desc ChildDescriptor

	outcome   chan ChildOutcome
	cancelled int32
}

// NewMockChildWorker returns a MockChildWorker spawned with the given
// descriptor.
func NewMockChildWorker(desc ChildDescriptor) *MockChildWorker {
	return &MockChildWorker{
		desc:    desc,
		outcome: make(chan ChildOutcome, 1),
	}
}

// Descriptor implements ChildWorker.
func (m *MockChildWorker) Descriptor() ChildDescriptor { return m.desc }

// Outcome implements ChildWorker.
func (m *MockChildWorker) Outcome() <-chan ChildOutcome { return m.outcome }

// Cancel implements ChildWorker.
func (m *MockChildWorker) Cancel() { atomic.StoreInt32(&m.cancelled, 1) }

// Cancelled reports whether the coordinator called Cancel on this worker.
func (m *MockChildWorker) Cancelled() bool {
	return atomic.LoadInt32(&m.cancelled) == 1
}

// Succeed resolves the worker with a successful outcome.
func (m *MockChildWorker) Succeed(preimage [32]byte, part PartialPayment) {
	m.outcome <- ChildOutcome{Preimage: preimage, Part: part}
}

// Fail resolves the worker with a failed outcome carrying the given
// records.
func (m *MockChildWorker) Fail(records ...FailureRecord) {
	m.outcome <- ChildOutcome{Failures: records}
}

// MockSpawner is a ChildSpawnFunc capability that records every worker it
// creates, letting a test drive each spawned child's outcome individually.
type MockSpawner struct {
	mu      sync.Mutex
	workers []*MockChildWorker
}

// NewMockSpawner returns an empty MockSpawner.
func NewMockSpawner() *MockSpawner {
	return &MockSpawner{}
}

// Spawn implements ChildSpawnFunc.
func (s *MockSpawner) Spawn(desc ChildDescriptor) ChildWorker {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := NewMockChildWorker(desc)
	s.workers = append(s.workers, w)

	return w
}

// Workers returns a snapshot of every worker spawned so far, in spawn
// order.
func (s *MockSpawner) Workers() []*MockChildWorker {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*MockChildWorker, len(s.workers))
	copy(out, s.workers)

	return out
}

// Last returns the most recently spawned worker.
func (s *MockSpawner) Last() *MockChildWorker {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.workers[len(s.workers)-1]
}

// NumSpawned returns the count of workers spawned so far.
func (s *MockSpawner) NumSpawned() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.workers)
}
