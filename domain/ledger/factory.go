package ledger

import (
	infrastructuredatabase "github.com/kaspanet/ledgerd/infrastructure/db/database"

	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/blockbodystore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/blockheaderstore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/canonicalchainstore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/chainstatestore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/statestore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/transactionresultstore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/transactionstore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/transactiontracestore"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/processes/chainmanager"
	"github.com/kaspanet/ledgerd/domain/ledger/processes/statemanager"
	"github.com/kaspanet/ledgerd/domain/ledger/processes/statereverter"
	"github.com/kaspanet/ledgerd/domain/ledger/processes/tracemanager"
	"github.com/pkg/errors"
)

// Factory instantiates new Ledgers
type Factory interface {
	NewLedger(config *Config, db infrastructuredatabase.Database,
		events chan<- externalapi.ChainEvent) (Ledger, error)
}

type factory struct{}

// NewFactory creates a new Ledger factory
func NewFactory() Factory {
	return &factory{}
}

// NewLedger instantiates a new Ledger over db. Every chain scoped store is
// bucketed under the chain id, so several ledgers may share one database.
func (f *factory) NewLedger(config *Config, db infrastructuredatabase.Database,
	events chan<- externalapi.ChainEvent) (Ledger, error) {

	if config.ChainID == nil {
		return nil, errors.New("a ledger requires a chain id")
	}
	config = config.withDefaults()

	dbManager := database.New(db)
	rootBucket := database.MakeBucket()
	prefixBucket := database.MakeBucket([]byte(config.ChainID.String()))

	// Data Structures
	blockHeaderStore, err := blockheaderstore.New(prefixBucket, config.BlockCacheSize)
	if err != nil {
		return nil, err
	}
	blockBodyStore, err := blockbodystore.New(prefixBucket, config.BlockCacheSize)
	if err != nil {
		return nil, err
	}
	canonicalChainStore, err := canonicalchainstore.New(prefixBucket, config.BlockCacheSize)
	if err != nil {
		return nil, err
	}
	chainStateStore, err := chainstatestore.New(rootBucket, config.BlockCacheSize)
	if err != nil {
		return nil, err
	}
	sideChainStateStore, err := chainstatestore.NewSideChainStateStore(prefixBucket, config.BlockCacheSize)
	if err != nil {
		return nil, err
	}
	transactionStore, err := transactionstore.New(prefixBucket, config.TransactionCacheSize)
	if err != nil {
		return nil, err
	}
	transactionResultStore := transactionresultstore.New(prefixBucket)
	transactionTraceStore, err := transactiontracestore.New(prefixBucket, config.TransactionCacheSize)
	if err != nil {
		return nil, err
	}
	stateStore, err := statestore.New(prefixBucket, config.StateCacheSize)
	if err != nil {
		return nil, err
	}

	// Processes
	traceManager := tracemanager.New(
		dbManager,
		transactionTraceStore)
	stateManager := statemanager.New(
		dbManager,
		stateStore)
	stateReverter := statereverter.New(
		dbManager,
		traceManager,
		stateManager)
	chainManager := chainmanager.New(
		config.ChainID,
		dbManager,

		blockHeaderStore,
		blockBodyStore,
		canonicalChainStore,
		chainStateStore,
		sideChainStateStore,
		transactionStore,
		transactionResultStore,

		traceManager,
		stateManager,
		stateReverter,

		events)

	log.Infof("Ledger of chain %s is ready", config.ChainID)
	return &ledger{
		ChainManager: chainManager,
		chainID:      config.ChainID,
		traceManager: traceManager,
	}, nil
}
