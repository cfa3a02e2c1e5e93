// Package chainntfs provides the narrow slice of on-chain awareness the
// payment lifecycle coordinator needs: the current block height used to
// compute a final HTLC's CLTV expiry. Confirmation and spend notification,
// and all other chain-backend concerns, belong to the wallet/channel layer
// and are out of scope here.
package chainntfs

// BlockEpoch represents metadata concerning a block connected to the best
// chain.
type BlockEpoch struct {
	// Height is the height of the block in the best chain.
	Height int32
}

// BlockEpochEvent encapsulates an ongoing stream of block epoch
// notifications. Epochs is sent upon for each new block connected to the
// main chain.
type BlockEpochEvent struct {
	Epochs chan *BlockEpoch // MUST be buffered.
}

// ChainNotifier is the narrow interface the coordinator depends on to learn
// the current chain height, used only to compute a child's final CLTV
// expiry. Concrete implementations (a full node, an Electrum client, a
// light client) live outside this module.
type ChainNotifier interface {
	// RegisterBlockEpochNtfn registers an intent to be notified of each
	// new block connected to the tip of the main chain.
	RegisterBlockEpochNtfn() (*BlockEpochEvent, error)

	// Start starts the ChainNotifier.
	Start() error

	// Stop stops the ChainNotifier.
	Stop() error
}
