package chainmanager

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/ledgerhashing"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/pkg/errors"
)

// RollbackToHeight removes every canonical block above the given height,
// reverts the world state those blocks produced and moves the side chains
// they indexed back. All of it is committed atomically.
//
// It returns the transactions of the removed blocks in ascending order, so
// that they can be resubmitted. If a rollback is already in progress, the
// module was terminated, or the chain is not above the given height, it
// returns an empty slice and changes nothing.
func (cm *chainManager) RollbackToHeight(height uint64) ([]*externalapi.DomainTransaction, error) {
	if !cm.guard.tryBegin() {
		log.Warnf("Ignoring a rollback to height %d: a rollback is already in progress "+
			"or the module was terminated", height)
		return []*externalapi.DomainTransaction{}, nil
	}
	defer func() {
		if cm.guard.end() {
			log.Infof("Block rollback module terminated")
			cm.publish(&externalapi.TerminatedModule{Module: externalapi.ModuleBlockRollback})
		}
	}()

	onEnd := logger.LogAndMeasureExecutionTime(log, "RollbackToHeight")
	defer onEnd()

	cm.publish(&externalapi.RollbackStarted{TargetHeight: height})

	removedBlocks, resultingHeight, err := cm.rollbackToHeight(height)
	if err != nil {
		log.Errorf("Rollback to height %d failed: %+v", height, err)
		cm.publish(&externalapi.RollbackFinished{TargetHeight: height, Height: resultingHeight, Err: err})
		return nil, err
	}

	if len(removedBlocks) > 0 {
		cm.publish(&externalapi.BranchRolledBack{Blocks: removedBlocks})
	}
	cm.publish(&externalapi.RollbackFinished{TargetHeight: height, Height: resultingHeight})

	transactions := make([]*externalapi.DomainTransaction, 0)
	for _, block := range removedBlocks {
		transactions = append(transactions, block.Transactions...)
	}
	return transactions, nil
}

// rollbackToHeight does the work of RollbackToHeight under the chain lock.
// It returns the removed blocks in ascending height order along with the
// height of the canonical tip once it returns.
func (cm *chainManager) rollbackToHeight(height uint64) ([]*externalapi.DomainBlock, uint64, error) {
	cm.chainLock.Lock()
	defer cm.chainLock.Unlock()

	stagingArea := model.NewStagingArea()
	chainState, err := cm.chainState(stagingArea)
	if err != nil {
		return nil, 0, err
	}
	currentHeight := chainState.CurrentHeight
	if currentHeight <= height {
		log.Debugf("The canonical tip is at height %d, nothing to roll back to height %d", currentHeight, height)
		return nil, currentHeight, nil
	}
	if height < externalapi.GenesisBlockHeight {
		log.Warnf("Cannot roll back below the genesis block, requested height %d", height)
		return nil, currentHeight, nil
	}

	targetHash, found, err := cm.canonicalHash(stagingArea, height)
	if err != nil {
		return nil, currentHeight, err
	}
	if !found {
		return nil, currentHeight, errors.Wrapf(model.ErrInvalidState, "no canonical block at height %d", height)
	}

	log.Infof("Rolling back the canonical chain from height %d to height %d", currentHeight, height)
	removedBlocks := make([]*externalapi.DomainBlock, currentHeight-height)
	for blockHeight := currentHeight; blockHeight > height; blockHeight-- {
		block, err := cm.rollbackBlock(stagingArea, blockHeight)
		if err != nil {
			return nil, currentHeight, err
		}
		removedBlocks[blockHeight-height-1] = block
	}

	cm.chainStateStore.Stage(stagingArea, cm.chainID, &externalapi.ChainState{
		CurrentBlockHash: targetHash,
		CurrentHeight:    height,
	})

	err = staging.CommitAllChanges(cm.databaseContext, stagingArea)
	if err != nil {
		return nil, currentHeight, err
	}
	log.Infof("Rolled back %d blocks, the canonical tip is now %s at height %d",
		len(removedBlocks), targetHash, height)
	log.Tracef("Rolled back blocks: %s", logger.NewLogClosure(func() string {
		return spew.Sdump(removedBlocks)
	}))
	return removedBlocks, height, nil
}

// rollbackBlock stages the removal of the canonical block at the given
// height along with everything it changed
func (cm *chainManager) rollbackBlock(stagingArea *model.StagingArea,
	blockHeight uint64) (*externalapi.DomainBlock, error) {

	blockHash, found, err := cm.canonicalHash(stagingArea, blockHeight)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(model.ErrInvalidState, "no canonical block at height %d", blockHeight)
	}
	block, found, err := cm.block(stagingArea, blockHash, true)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(model.ErrInvalidState, "canonical block %s at height %d is not stored",
			blockHash, blockHeight)
	}

	log.Debugf("Rolling back block %s at height %d", blockHash, blockHeight)
	cm.canonicalChainStore.Delete(stagingArea, blockHeight)

	err = cm.rollbackIndexedSideChains(stagingArea, block.Body)
	if err != nil {
		return nil, err
	}

	disambiguationHash := ledgerhashing.HeaderDisambiguationHash(block.Header)
	err = cm.stateReverter.RevertTransactions(cm.databaseContext, stagingArea,
		block.Body.TransactionHashes, disambiguationHash)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to revert the state of block %s", blockHash)
	}
	return block, nil
}
