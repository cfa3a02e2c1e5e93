package htlcswitch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistrySpawnAndRemove(t *testing.T) {
	t.Parallel()

	spawner := NewMockSpawner()
	registry := NewChildSupervisorRegistry(spawner.Spawn)
	defer registry.Stop()

	desc := ChildDescriptor{FinalPayload: FinalPayload{Amount: 1000}}
	id := registry.Spawn(desc)

	require.Equal(t, 1, registry.NumPending())

	got, ok := registry.Descriptor(id)
	require.True(t, ok)
	require.Equal(t, desc.Amount(), got.Amount())

	registry.Remove(id)
	require.Equal(t, 0, registry.NumPending())
}

func TestRegistryForwardsOutcome(t *testing.T) {
	t.Parallel()

	spawner := NewMockSpawner()
	registry := NewChildSupervisorRegistry(spawner.Spawn)
	defer registry.Stop()

	desc := ChildDescriptor{FinalPayload: FinalPayload{Amount: 1000}}
	id := registry.Spawn(desc)

	worker := spawner.Last()
	var preimage [32]byte
	preimage[0] = 0xaa
	worker.Succeed(preimage, PartialPayment{ChildID: id, Amount: 1000})

	select {
	case raw := <-registry.Outcomes():
		outcome := raw.(ChildOutcome)
		require.Equal(t, id, outcome.ChildID)
		require.True(t, outcome.Succeeded())
		require.Equal(t, preimage, outcome.Preimage)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outcome")
	}
}

func TestRegistryStopCancelsOutstanding(t *testing.T) {
	t.Parallel()

	spawner := NewMockSpawner()
	registry := NewChildSupervisorRegistry(spawner.Spawn)

	registry.Spawn(ChildDescriptor{FinalPayload: FinalPayload{Amount: 1000}})

	registry.Stop()

	worker := spawner.Last()
	require.Eventually(t, worker.Cancelled, time.Second, 10*time.Millisecond)
}
