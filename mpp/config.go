package mpp

import (
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/go-errors/errors"
	"github.com/lightninglabs/mppcoord/chainntfs"
	"github.com/lightninglabs/mppcoord/htlcswitch"
	"github.com/lightninglabs/mppcoord/routing"
)

// defaultChildTimeout bounds how long the coordinator waits for an
// individual child's outcome before the registry cancels the child and
// records a LocalFailure ("child attempt timed out") against it.
const defaultChildTimeout = 60 * time.Second

// defaultMaxParts is the value Validate stores in a zero Config.MaxParts.
const defaultMaxParts = 16

var (
	// ErrNoSelfKey is returned by Validate when SelfKey is unset.
	ErrNoSelfKey = errors.New("config: SelfKey must be set")

	// ErrNoRelayer is returned by Validate when Relayer is unset.
	ErrNoRelayer = errors.New("config: Relayer must be set")

	// ErrNoRouter is returned by Validate when Router is unset.
	ErrNoRouter = errors.New("config: Router must be set")

	// ErrNoSpawnChild is returned by Validate when SpawnChild is unset.
	ErrNoSpawnChild = errors.New("config: SpawnChild must be set")

	// ErrNoChainNotifier is returned by Validate when ChainNotifier is
	// unset.
	ErrNoChainNotifier = errors.New("config: ChainNotifier must be set")
)

// Config defines the configuration for the Coordinator service. ALL
// elements within the configuration MUST be non-nil for the service to
// carry out its duties.
type Config struct {
	// SelfKey is the key of the backing Lightning node. Validate requires
	// it; failure classification does not read it (a local failure is
	// recognized by its LocalFailure variant alone).
	SelfKey *btcec.PublicKey

	// Relayer reports usable local channel balances eligible for the
	// first hop of any child.
	Relayer htlcswitch.Relayer

	// Router reports the network-wide capacity statistics the splitter
	// uses to size fragments destined for non-direct peers.
	Router routing.Router

	// SpawnChild constructs and starts a ChildWorker for a given
	// ChildDescriptor. Injected so tests can substitute deterministic
	// doubles for real onion-carrying HTLCs.
	SpawnChild htlcswitch.ChildSpawnFunc

	// ChainNotifier supplies the current block height used to stamp each
	// child's final CLTV expiry at spawn time.
	ChainNotifier chainntfs.ChainNotifier

	// ChildTimeout bounds how long a lifecycle waits on a child before
	// treating it as failed. Defaults to defaultChildTimeout.
	ChildTimeout time.Duration

	// MaxParts is the number of children a payment may have outstanding
	// at once. Defaults to defaultMaxParts. Neither Split nor Lifecycle
	// reads it, so the number of spawned children is not capped by it.
	MaxParts int
}

// Validate checks that a Config is complete enough to build a Coordinator,
// and fills in defaults for the fields that may be left zero.
func (c *Config) Validate() error {
	if c.SelfKey == nil {
		return ErrNoSelfKey
	}
	if c.Relayer == nil {
		return ErrNoRelayer
	}
	if c.Router == nil {
		return ErrNoRouter
	}
	if c.SpawnChild == nil {
		return ErrNoSpawnChild
	}
	if c.ChainNotifier == nil {
		return ErrNoChainNotifier
	}

	if c.ChildTimeout == 0 {
		c.ChildTimeout = defaultChildTimeout
	}
	if c.MaxParts == 0 {
		c.MaxParts = defaultMaxParts
	}

	return nil
}
