package model

import "github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"

// TraceManager stores and retrieves transaction traces under their
// disambiguated keys
type TraceManager interface {
	GetDisambiguatedKey(transactionID *externalapi.DomainHash, disambiguationHash *externalapi.DomainHash) string
	StageTransactionTrace(stagingArea *StagingArea, trace *externalapi.TransactionTrace,
		disambiguationHash *externalapi.DomainHash)
	AddTransactionTrace(trace *externalapi.TransactionTrace, disambiguationHash *externalapi.DomainHash) error
	TransactionTrace(dbContext DBReader, stagingArea *StagingArea, transactionID *externalapi.DomainHash,
		disambiguationHash *externalapi.DomainHash) (*externalapi.TransactionTrace, bool, error)
	GetTransactionTrace(transactionID *externalapi.DomainHash,
		disambiguationHash *externalapi.DomainHash) (*externalapi.TransactionTrace, bool, error)
}

// StateManager reads and writes the world state
type StateManager interface {
	PipelineSet(stagingArea *StagingArea, writes map[string]*externalapi.StateWrite)
	PipelineSetAndCommit(writes map[string]*externalapi.StateWrite) error
	State(dbContext DBReader, stagingArea *StagingArea, path *externalapi.StatePath) ([]byte, bool, error)
	GetState(path *externalapi.StatePath) ([]byte, bool, error)
	Commitment(dbContext DBReader, stagingArea *StagingArea) (*externalapi.DomainHash, error)
	GetCommitment() (*externalapi.DomainHash, error)
}

// StateReverter restores the world state to what it was before a set of
// transactions executed
type StateReverter interface {
	RevertTransactions(dbContext DBReader, stagingArea *StagingArea, transactionIDs []*externalapi.DomainHash,
		disambiguationHash *externalapi.DomainHash) error
	RollbackStateForTransactions(transactionIDs []*externalapi.DomainHash,
		disambiguationHash *externalapi.DomainHash) error
}

// HeaderReader is the light chain view of the canonical chain
type HeaderReader interface {
	GetHeaderByHeight(height uint64) (*externalapi.DomainBlockHeader, bool, error)
}

// BlockReader reads blocks and canonical bookkeeping
type BlockReader interface {
	HeaderReader
	GetBlockByHash(blockHash *externalapi.DomainHash, withTransactions bool) (*externalapi.DomainBlock, bool, error)
	GetBlockByHeight(height uint64, withTransactions bool) (*externalapi.DomainBlock, bool, error)
	GetHeaderByHash(blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, bool, error)
	GetCanonicalHash(height uint64) (*externalapi.DomainHash, bool, error)
	ChainState() (*externalapi.ChainState, error)
}

// CanonicalWriter mutates the canonical chain
type CanonicalWriter interface {
	AddBlock(block *externalapi.DomainBlock) error
	AddBlocks(blocks []*externalapi.DomainBlock) error
	AppendCanonicalBlock(blockHash *externalapi.DomainHash) error
	RollbackToHeight(height uint64) ([]*externalapi.DomainTransaction, error)
}

// ChainManager is the single authority for canonical bookkeeping
type ChainManager interface {
	BlockReader
	CanonicalWriter
	ApplyBlockTraces(blockHash *externalapi.DomainHash, traces []*externalapi.TransactionTrace) error
	SideChainState(chainID *externalapi.DomainChainID) (*externalapi.ChainState, bool, error)
	SetSideChainHeight(chainID *externalapi.DomainChainID, height uint64) error
	SideChainStates() (map[externalapi.DomainChainID]*externalapi.ChainState, error)
	AddTransactionResults(results []*externalapi.TransactionResult) error
	GetTransactionResult(transactionID *externalapi.DomainHash) (*externalapi.TransactionResult, bool, error)
	TransactionMerklePath(transactionID *externalapi.DomainHash) (*externalapi.MerklePath, bool, error)
	GetState(path *externalapi.StatePath) ([]byte, bool, error)
	GetStateCommitment() (*externalapi.DomainHash, error)
	AddTransactionTrace(trace *externalapi.TransactionTrace, disambiguationHash *externalapi.DomainHash) error
	GetTransactionTrace(transactionID *externalapi.DomainHash,
		disambiguationHash *externalapi.DomainHash) (*externalapi.TransactionTrace, bool, error)
	RollbackStateForTransactions(transactionIDs []*externalapi.DomainHash,
		disambiguationHash *externalapi.DomainHash) error
	RequestTermination()
	IsTerminated() bool
}
