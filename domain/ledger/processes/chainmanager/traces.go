package chainmanager

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/ledgerhashing"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
	"github.com/pkg/errors"
)

// ApplyBlockTraces records the traces of the transactions executed by the
// given block and applies their new values to the world state, all in one
// commit. Traces are applied in order, so a later write to a path wins.
func (cm *chainManager) ApplyBlockTraces(blockHash *externalapi.DomainHash,
	traces []*externalapi.TransactionTrace) error {

	cm.chainLock.Lock()
	defer cm.chainLock.Unlock()

	stagingArea := model.NewStagingArea()
	header, found, err := cm.header(stagingArea, blockHash)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(model.ErrInvalidState, "block %s is not stored", blockHash)
	}
	disambiguationHash := ledgerhashing.HeaderDisambiguationHash(header)

	writes := make(map[string]*externalapi.StateWrite)
	for _, trace := range traces {
		cm.traceManager.StageTransactionTrace(stagingArea, trace, disambiguationHash)
		for _, change := range trace.StateChanges {
			writes[change.Path.MapKey()] = &externalapi.StateWrite{
				Path:  change.Path,
				Value: change.NewValue,
			}
		}
	}
	cm.stateManager.PipelineSet(stagingArea, writes)

	log.Debugf("Applying %d traces touching %d paths for block %s", len(traces), len(writes), blockHash)
	return staging.CommitAllChanges(cm.databaseContext, stagingArea)
}
