package chainmanager

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/merkle"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
	"github.com/pkg/errors"
)

func (cm *chainManager) AddTransactionResults(results []*externalapi.TransactionResult) error {
	cm.chainLock.Lock()
	defer cm.chainLock.Unlock()

	stagingArea := model.NewStagingArea()
	for _, result := range results {
		cm.transactionResultStore.Stage(stagingArea, result)
	}
	return staging.CommitAllChanges(cm.databaseContext, stagingArea)
}

func (cm *chainManager) GetTransactionResult(
	transactionID *externalapi.DomainHash) (*externalapi.TransactionResult, bool, error) {

	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.transactionResult(model.NewStagingArea(), transactionID)
}

func (cm *chainManager) transactionResult(stagingArea *model.StagingArea,
	transactionID *externalapi.DomainHash) (*externalapi.TransactionResult, bool, error) {

	result, err := cm.transactionResultStore.TransactionResult(cm.databaseContext, stagingArea, transactionID)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

// TransactionMerklePath returns the path proving that a mined transaction is
// included in the transaction merkle root of its block
func (cm *chainManager) TransactionMerklePath(
	transactionID *externalapi.DomainHash) (*externalapi.MerklePath, bool, error) {

	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	stagingArea := model.NewStagingArea()
	result, found, err := cm.transactionResult(stagingArea, transactionID)
	if err != nil || !found {
		return nil, false, err
	}
	if result.Status != externalapi.TransactionStatusMined {
		return nil, false, errors.Wrapf(model.ErrTransactionNotMined, "transaction %s has status %s",
			transactionID, result.Status)
	}

	body, err := cm.blockBodyStore.BlockBody(cm.databaseContext, stagingArea, result.BlockHash)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to load the body of block %s", result.BlockHash)
	}
	index := int(result.Index)
	if index >= len(body.TransactionHashes) || !body.TransactionHashes[index].Equal(transactionID) {
		return nil, false, errors.Wrapf(model.ErrInvalidState, "transaction %s is not at index %d of block %s",
			transactionID, index, result.BlockHash)
	}

	nodes, err := merkle.GeneratePath(body.TransactionHashes, index)
	if err != nil {
		return nil, false, err
	}
	return &externalapi.MerklePath{
		BlockHash:   result.BlockHash,
		BlockHeight: result.BlockHeight,
		Nodes:       nodes,
	}, true, nil
}
