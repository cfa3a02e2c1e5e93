package routing

import (
	"context"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
)

// defaultStatsRefresh is how often the background tick recomputes
// NetworkStats when the router is run with Start/Stop, and how stale a
// cached value may be before GetNetworkStats reports it absent.
const defaultStatsRefresh = 10 * time.Minute

// CapacitySource supplies a fresh sample of remote channel capacities that
// TickComputeNetworkStats summarizes into a NetworkStats. Discovering and
// measuring those channels is graph/gossip bookkeeping and lives outside
// this module.
type CapacitySource func(ctx context.Context) ([]btcutil.Amount, error)

// Router is the coordinator's view of the routing subsystem: it reports the
// current NetworkStats summary, recomputing it on request.
type Router interface {
	// GetNetworkStats returns the current cached NetworkStats, or false
	// if none has been computed yet (or the cached value has gone
	// stale).
	GetNetworkStats(ctx context.Context) (*NetworkStats, bool)

	// TickComputeNetworkStats asks the router to recompute NetworkStats
	// immediately from a fresh capacity sample.
	TickComputeNetworkStats(ctx context.Context) error
}

// ChannelRouter is a concrete Router backed by a CapacitySource, caching the
// most recently computed NetworkStats with the decaying-view discipline
// mission control uses for its prune view: a value older than the refresh
// window is treated as absent rather than served stale.
type ChannelRouter struct {
	capacitySource CapacitySource
	clock          clock.Clock
	refreshEvery   time.Duration

	mu         sync.Mutex
	stats      *NetworkStats
	computedAt time.Time

	statsTicker ticker.Ticker
	quit        chan struct{}
	wg          sync.WaitGroup
}

// NewChannelRouter returns a ChannelRouter that recomputes NetworkStats from
// the given capacity source.
func NewChannelRouter(source CapacitySource) *ChannelRouter {
	return &ChannelRouter{
		capacitySource: source,
		clock:          clock.NewDefaultClock(),
		refreshEvery:   defaultStatsRefresh,
		statsTicker:    ticker.New(defaultStatsRefresh),
		quit:           make(chan struct{}),
	}
}

// GetNetworkStats implements Router.
func (r *ChannelRouter) GetNetworkStats(_ context.Context) (*NetworkStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stats == nil {
		return nil, false
	}
	if r.clock.Now().Sub(r.computedAt) > r.refreshEvery {
		log.Debugf("Cached network stats are stale, reporting absent")
		return nil, false
	}

	stats := *r.stats
	return &stats, true
}

// TickComputeNetworkStats implements Router.
func (r *ChannelRouter) TickComputeNetworkStats(ctx context.Context) error {
	samples, err := r.capacitySource(ctx)
	if err != nil {
		return err
	}

	computed := EstimateNetworkStats(samples)

	r.mu.Lock()
	r.stats = &computed
	r.computedAt = r.clock.Now()
	r.mu.Unlock()

	log.Debugf("Recomputed network stats from %v samples: median=%v p75=%v "+
		"p90=%v p99=%v", len(samples), computed.Median, computed.P75,
		computed.P90, computed.P99)

	return nil
}

// Start begins a background loop that periodically recomputes NetworkStats
// on the router's own ticker, so a coordinator that merely reads
// GetNetworkStats rarely has to wait on a synchronous recompute.
func (r *ChannelRouter) Start() {
	r.statsTicker.Resume()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.statsTicker.Stop()

		for {
			select {
			case <-r.statsTicker.Ticks():
				if err := r.TickComputeNetworkStats(context.Background()); err != nil {
					log.Errorf("Unable to recompute network stats: %v", err)
				}

			case <-r.quit:
				return
			}
		}
	}()
}

// Stop halts the background recompute loop.
func (r *ChannelRouter) Stop() {
	close(r.quit)
	r.wg.Wait()
}
