package chainmanager

import (
	"sync"

	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
)

// chainManager is the single authority for the canonical bookkeeping of one
// chain. Writes hold chainLock exclusively and reads hold it shared, so a
// reader never observes a partially committed change.
type chainManager struct {
	chainID         *externalapi.DomainChainID
	databaseContext model.DBManager

	blockHeaderStore       model.BlockHeaderStore
	blockBodyStore         model.BlockBodyStore
	canonicalChainStore    model.CanonicalChainStore
	chainStateStore        model.ChainStateStore
	sideChainStateStore    model.ChainStateStore
	transactionStore       model.TransactionStore
	transactionResultStore model.TransactionResultStore

	traceManager  model.TraceManager
	stateManager  model.StateManager
	stateReverter model.StateReverter

	events chan<- externalapi.ChainEvent

	chainLock sync.RWMutex
	guard     rollbackGuard
}

// New instantiates a new ChainManager. Events are sent on events if it is
// not nil. The receiver must keep draining the channel.
func New(
	chainID *externalapi.DomainChainID,
	databaseContext model.DBManager,

	blockHeaderStore model.BlockHeaderStore,
	blockBodyStore model.BlockBodyStore,
	canonicalChainStore model.CanonicalChainStore,
	chainStateStore model.ChainStateStore,
	sideChainStateStore model.ChainStateStore,
	transactionStore model.TransactionStore,
	transactionResultStore model.TransactionResultStore,

	traceManager model.TraceManager,
	stateManager model.StateManager,
	stateReverter model.StateReverter,

	events chan<- externalapi.ChainEvent) model.ChainManager {

	return &chainManager{
		chainID:         chainID,
		databaseContext: databaseContext,

		blockHeaderStore:       blockHeaderStore,
		blockBodyStore:         blockBodyStore,
		canonicalChainStore:    canonicalChainStore,
		chainStateStore:        chainStateStore,
		sideChainStateStore:    sideChainStateStore,
		transactionStore:       transactionStore,
		transactionResultStore: transactionResultStore,

		traceManager:  traceManager,
		stateManager:  stateManager,
		stateReverter: stateReverter,

		events: events,
	}
}

func (cm *chainManager) publish(event externalapi.ChainEvent) {
	if cm.events == nil {
		return
	}
	cm.events <- event
}

// chainState returns the canonical pointer of the managed chain. An empty
// chain has a zero height and no current block.
func (cm *chainManager) chainState(stagingArea *model.StagingArea) (*externalapi.ChainState, error) {
	chainState, err := cm.chainStateStore.ChainState(cm.databaseContext, stagingArea, cm.chainID)
	if database.IsNotFoundError(err) {
		return &externalapi.ChainState{}, nil
	}
	if err != nil {
		return nil, err
	}
	return chainState, nil
}

func (cm *chainManager) ChainState() (*externalapi.ChainState, error) {
	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.chainState(model.NewStagingArea())
}

func (cm *chainManager) RequestTermination() {
	terminatedNow, deferred := cm.guard.requestTermination()
	if terminatedNow {
		log.Infof("Block rollback module terminated")
		cm.publish(&externalapi.TerminatedModule{Module: externalapi.ModuleBlockRollback})
		return
	}
	if deferred {
		log.Infof("Termination requested while a rollback is in progress. " +
			"It will take effect once the rollback finishes")
		cm.publish(&externalapi.TerminationRequested{})
	}
}

func (cm *chainManager) IsTerminated() bool {
	return cm.guard.isTerminated()
}
