package htlcswitch

import "context"

// Relayer is the coordinator's view of the link-management layer: it
// reports the current usable balance across every local channel. Discovery
// of channels and their live balances is channel-balance bookkeeping that
// lives in an external collaborator; Relayer is only the contract the
// coordinator calls through.
type Relayer interface {
	// GetUsableBalances returns a snapshot of every channel the sender
	// could presently use to forward an HTLC.
	GetUsableBalances(ctx context.Context) ([]UsableBalance, error)
}

// BalanceSource supplies a fresh balance snapshot. A host process wires a
// concrete implementation (backed by its real channel/link bookkeeping) in
// through NewChannelRelayer.
type BalanceSource func(ctx context.Context) ([]UsableBalance, error)

// ChannelRelayer adapts a BalanceSource into a Relayer. It holds no balance
// state itself — each call is forwarded straight through to the source —
// since usable-balance information is read-only within one split cycle and
// must be re-fetched on every retry.
type ChannelRelayer struct {
	source BalanceSource
}

// NewChannelRelayer returns a Relayer backed by the given balance source.
func NewChannelRelayer(source BalanceSource) *ChannelRelayer {
	return &ChannelRelayer{source: source}
}

// GetUsableBalances implements Relayer.
func (c *ChannelRelayer) GetUsableBalances(ctx context.Context) ([]UsableBalance, error) {
	balances, err := c.source(ctx)
	if err != nil {
		log.Errorf("Unable to fetch usable balances: %v", err)
		return nil, err
	}

	log.Tracef("Relayer reporting %v usable balances", len(balances))

	return balances, nil
}
