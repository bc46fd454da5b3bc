package tracemanager

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/hashes"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
)

type traceManager struct {
	databaseContext       model.DBManager
	transactionTraceStore model.TransactionTraceStore
}

// New instantiates a new TraceManager
func New(databaseContext model.DBManager, transactionTraceStore model.TransactionTraceStore) model.TraceManager {
	return &traceManager{
		databaseContext:       databaseContext,
		transactionTraceStore: transactionTraceStore,
	}
}

// GetDisambiguatedKey returns the key under which the trace of transactionID
// is stored. Without a disambiguation hash it is the transaction id itself,
// otherwise it is the XOR of both, so that the same transaction executed in
// blocks of competing branches gets separate traces.
func (tm *traceManager) GetDisambiguatedKey(transactionID *externalapi.DomainHash,
	disambiguationHash *externalapi.DomainHash) string {

	if disambiguationHash == nil {
		return transactionID.String()
	}
	return hashes.Xor(transactionID, disambiguationHash).String()
}

func (tm *traceManager) StageTransactionTrace(stagingArea *model.StagingArea, trace *externalapi.TransactionTrace,
	disambiguationHash *externalapi.DomainHash) {

	key := tm.GetDisambiguatedKey(trace.TransactionID, disambiguationHash)
	tm.transactionTraceStore.Stage(stagingArea, key, trace)
}

func (tm *traceManager) AddTransactionTrace(trace *externalapi.TransactionTrace,
	disambiguationHash *externalapi.DomainHash) error {

	stagingArea := model.NewStagingArea()
	tm.StageTransactionTrace(stagingArea, trace, disambiguationHash)
	return staging.CommitAllChanges(tm.databaseContext, stagingArea)
}

func (tm *traceManager) TransactionTrace(dbContext model.DBReader, stagingArea *model.StagingArea,
	transactionID *externalapi.DomainHash, disambiguationHash *externalapi.DomainHash) (
	*externalapi.TransactionTrace, bool, error) {

	key := tm.GetDisambiguatedKey(transactionID, disambiguationHash)
	trace, err := tm.transactionTraceStore.TransactionTrace(dbContext, stagingArea, key)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return trace, true, nil
}

func (tm *traceManager) GetTransactionTrace(transactionID *externalapi.DomainHash,
	disambiguationHash *externalapi.DomainHash) (*externalapi.TransactionTrace, bool, error) {

	return tm.TransactionTrace(tm.databaseContext, model.NewStagingArea(), transactionID, disambiguationHash)
}
