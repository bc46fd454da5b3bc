package chainmanager

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
)

func (cm *chainManager) GetState(path *externalapi.StatePath) ([]byte, bool, error) {
	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.stateManager.State(cm.databaseContext, model.NewStagingArea(), path)
}

func (cm *chainManager) GetStateCommitment() (*externalapi.DomainHash, error) {
	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.stateManager.Commitment(cm.databaseContext, model.NewStagingArea())
}

// AddTransactionTrace stores a single trace. It does not touch the world
// state.
func (cm *chainManager) AddTransactionTrace(trace *externalapi.TransactionTrace,
	disambiguationHash *externalapi.DomainHash) error {

	cm.chainLock.Lock()
	defer cm.chainLock.Unlock()

	stagingArea := model.NewStagingArea()
	cm.traceManager.StageTransactionTrace(stagingArea, trace, disambiguationHash)
	return staging.CommitAllChanges(cm.databaseContext, stagingArea)
}

func (cm *chainManager) GetTransactionTrace(transactionID *externalapi.DomainHash,
	disambiguationHash *externalapi.DomainHash) (*externalapi.TransactionTrace, bool, error) {

	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.traceManager.TransactionTrace(cm.databaseContext, model.NewStagingArea(), transactionID,
		disambiguationHash)
}

// RollbackStateForTransactions restores every path touched by the given
// transactions to its value before the first of them, in one commit. It
// holds chainLock so that it never interleaves with a block rollback.
func (cm *chainManager) RollbackStateForTransactions(transactionIDs []*externalapi.DomainHash,
	disambiguationHash *externalapi.DomainHash) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "RollbackStateForTransactions")
	defer onEnd()

	cm.chainLock.Lock()
	defer cm.chainLock.Unlock()

	stagingArea := model.NewStagingArea()
	err := cm.stateReverter.RevertTransactions(cm.databaseContext, stagingArea, transactionIDs, disambiguationHash)
	if err != nil {
		return err
	}
	return staging.CommitAllChanges(cm.databaseContext, stagingArea)
}
