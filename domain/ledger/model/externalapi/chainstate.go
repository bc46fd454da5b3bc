package externalapi

// GenesisBlockHeight is the height of the first block of every chain
const GenesisBlockHeight uint64 = 1

// ChainState is the canonical pointer of a chain. CurrentBlockHash is nil
// for side-chain entries, which only track the indexed height.
type ChainState struct {
	CurrentBlockHash *DomainHash
	CurrentHeight    uint64
}

// Clone returns a clone of ChainState
func (state *ChainState) Clone() *ChainState {
	return &ChainState{
		CurrentBlockHash: state.CurrentBlockHash,
		CurrentHeight:    state.CurrentHeight,
	}
}
