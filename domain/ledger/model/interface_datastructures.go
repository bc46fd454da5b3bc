package model

import "github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"

// Store is a common interface for data stores
type Store interface {
	// ClearCache drops every cached entry of the store
	ClearCache()
}

// BlockHeaderStore represents a store of block headers
type BlockHeaderStore interface {
	Store
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, blockHeader *externalapi.DomainBlockHeader)
	IsStaged(stagingArea *StagingArea) bool
	BlockHeader(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error)
	HasBlockHeader(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
	Delete(stagingArea *StagingArea, blockHash *externalapi.DomainHash)
}

// BlockBodyStore represents a store of block bodies
type BlockBodyStore interface {
	Store
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, blockBody *externalapi.DomainBlockBody)
	IsStaged(stagingArea *StagingArea) bool
	BlockBody(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockBody, error)
	HasBlockBody(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
	Delete(stagingArea *StagingArea, blockHash *externalapi.DomainHash)
}

// CanonicalChainStore represents a store of the canonical block hash at each height
type CanonicalChainStore interface {
	Store
	Stage(stagingArea *StagingArea, height uint64, blockHash *externalapi.DomainHash)
	Delete(stagingArea *StagingArea, height uint64)
	IsStaged(stagingArea *StagingArea) bool
	CanonicalHash(dbContext DBReader, stagingArea *StagingArea, height uint64) (*externalapi.DomainHash, error)
}

// ChainStateStore represents a store of the canonical pointers of every known chain
type ChainStateStore interface {
	Store
	Stage(stagingArea *StagingArea, chainID *externalapi.DomainChainID, chainState *externalapi.ChainState)
	IsStaged(stagingArea *StagingArea) bool
	ChainState(dbContext DBReader, stagingArea *StagingArea, chainID *externalapi.DomainChainID) (*externalapi.ChainState, error)
	HasChainState(dbContext DBReader, stagingArea *StagingArea, chainID *externalapi.DomainChainID) (bool, error)
	AllChainStates(dbContext DBReader, stagingArea *StagingArea) (map[externalapi.DomainChainID]*externalapi.ChainState, error)
}

// TransactionStore represents a store of transactions
type TransactionStore interface {
	Store
	Stage(stagingArea *StagingArea, transactionID *externalapi.DomainHash, transaction *externalapi.DomainTransaction)
	IsStaged(stagingArea *StagingArea) bool
	Transaction(dbContext DBReader, stagingArea *StagingArea, transactionID *externalapi.DomainHash) (*externalapi.DomainTransaction, error)
	HasTransaction(dbContext DBReader, stagingArea *StagingArea, transactionID *externalapi.DomainHash) (bool, error)
}

// TransactionResultStore represents a store of transaction results
type TransactionResultStore interface {
	Store
	Stage(stagingArea *StagingArea, result *externalapi.TransactionResult)
	IsStaged(stagingArea *StagingArea) bool
	TransactionResult(dbContext DBReader, stagingArea *StagingArea, transactionID *externalapi.DomainHash) (*externalapi.TransactionResult, error)
}

// TransactionTraceStore represents a store of transaction traces, keyed by
// their disambiguated key
type TransactionTraceStore interface {
	Store
	Stage(stagingArea *StagingArea, key string, trace *externalapi.TransactionTrace)
	IsStaged(stagingArea *StagingArea) bool
	TransactionTrace(dbContext DBReader, stagingArea *StagingArea, key string) (*externalapi.TransactionTrace, error)
	HasTransactionTrace(dbContext DBReader, stagingArea *StagingArea, key string) (bool, error)
}

// StateStore represents the world state along with its commitment
type StateStore interface {
	Store
	Stage(stagingArea *StagingArea, path *externalapi.StatePath, value []byte)
	IsStaged(stagingArea *StagingArea) bool
	State(dbContext DBReader, stagingArea *StagingArea, path *externalapi.StatePath) ([]byte, error)
	HasState(dbContext DBReader, stagingArea *StagingArea, path *externalapi.StatePath) (bool, error)
	Commitment(dbContext DBReader, stagingArea *StagingArea) (*externalapi.DomainHash, error)
}
