package statereverter

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/pkg/errors"
)

type stateReverter struct {
	databaseContext model.DBManager
	traceManager    model.TraceManager
	stateManager    model.StateManager
}

// New instantiates a new StateReverter
func New(databaseContext model.DBManager, traceManager model.TraceManager,
	stateManager model.StateManager) model.StateReverter {

	return &stateReverter{
		databaseContext: databaseContext,
		traceManager:    traceManager,
		stateManager:    stateManager,
	}
}

// RevertTransactions stages the restoration of every path touched by the
// given transactions to the value it held before the first of them ran.
// Transactions are walked from last to first so that for a path touched
// several times the original value recorded by the earliest transaction is
// the one that remains.
func (sr *stateReverter) RevertTransactions(dbContext model.DBReader, stagingArea *model.StagingArea,
	transactionIDs []*externalapi.DomainHash, disambiguationHash *externalapi.DomainHash) error {

	originalValues := make(map[string]*externalapi.StateWrite)
	for i := len(transactionIDs) - 1; i >= 0; i-- {
		transactionID := transactionIDs[i]
		trace, found, err := sr.traceManager.TransactionTrace(dbContext, stagingArea, transactionID, disambiguationHash)
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrapf(model.ErrMissingTransactionTrace, "no trace for transaction %s under key %s",
				transactionID, sr.traceManager.GetDisambiguatedKey(transactionID, disambiguationHash))
		}
		for _, change := range trace.StateChanges {
			originalValues[change.Path.MapKey()] = &externalapi.StateWrite{
				Path:  change.Path,
				Value: change.OriginalValue,
			}
		}
	}

	log.Tracef("Reverting %d paths touched by %d transactions", len(originalValues), len(transactionIDs))
	sr.stateManager.PipelineSet(stagingArea, originalValues)
	return nil
}

// RollbackStateForTransactions reverts the given transactions and commits
// the result atomically
func (sr *stateReverter) RollbackStateForTransactions(transactionIDs []*externalapi.DomainHash,
	disambiguationHash *externalapi.DomainHash) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "RollbackStateForTransactions")
	defer onEnd()

	stagingArea := model.NewStagingArea()
	err := sr.RevertTransactions(sr.databaseContext, stagingArea, transactionIDs, disambiguationHash)
	if err != nil {
		return err
	}
	return staging.CommitAllChanges(sr.databaseContext, stagingArea)
}
