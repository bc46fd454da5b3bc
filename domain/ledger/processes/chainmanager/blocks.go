package chainmanager

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/ledgerhashing"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
	"github.com/pkg/errors"
)

func (cm *chainManager) GetBlockByHash(blockHash *externalapi.DomainHash,
	withTransactions bool) (*externalapi.DomainBlock, bool, error) {

	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.block(model.NewStagingArea(), blockHash, withTransactions)
}

func (cm *chainManager) GetBlockByHeight(height uint64, withTransactions bool) (*externalapi.DomainBlock, bool, error) {
	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	stagingArea := model.NewStagingArea()
	blockHash, found, err := cm.canonicalHash(stagingArea, height)
	if err != nil || !found {
		return nil, false, err
	}
	return cm.block(stagingArea, blockHash, withTransactions)
}

func (cm *chainManager) GetHeaderByHash(blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, bool, error) {
	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.header(model.NewStagingArea(), blockHash)
}

func (cm *chainManager) GetHeaderByHeight(height uint64) (*externalapi.DomainBlockHeader, bool, error) {
	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	stagingArea := model.NewStagingArea()
	blockHash, found, err := cm.canonicalHash(stagingArea, height)
	if err != nil || !found {
		return nil, false, err
	}
	return cm.header(stagingArea, blockHash)
}

func (cm *chainManager) GetCanonicalHash(height uint64) (*externalapi.DomainHash, bool, error) {
	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.canonicalHash(model.NewStagingArea(), height)
}

func (cm *chainManager) canonicalHash(stagingArea *model.StagingArea,
	height uint64) (*externalapi.DomainHash, bool, error) {

	blockHash, err := cm.canonicalChainStore.CanonicalHash(cm.databaseContext, stagingArea, height)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blockHash, true, nil
}

func (cm *chainManager) header(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, bool, error) {

	header, err := cm.blockHeaderStore.BlockHeader(cm.databaseContext, stagingArea, blockHash)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return header, true, nil
}

// block assembles a block out of its header and body. A block is found only
// if both were stored.
func (cm *chainManager) block(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	withTransactions bool) (*externalapi.DomainBlock, bool, error) {

	header, found, err := cm.header(stagingArea, blockHash)
	if err != nil || !found {
		return nil, false, err
	}
	body, err := cm.blockBodyStore.BlockBody(cm.databaseContext, stagingArea, blockHash)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	block := &externalapi.DomainBlock{Header: header, Body: body}
	if !withTransactions {
		return block, true, nil
	}

	block.Transactions = make([]*externalapi.DomainTransaction, len(body.TransactionHashes))
	for i, transactionID := range body.TransactionHashes {
		transaction, err := cm.transactionStore.Transaction(cm.databaseContext, stagingArea, transactionID)
		if err != nil {
			return nil, false, errors.Wrapf(err, "failed to load transaction %s of block %s", transactionID, blockHash)
		}
		block.Transactions[i] = transaction
	}
	return block, true, nil
}

func (cm *chainManager) AddBlock(block *externalapi.DomainBlock) error {
	return cm.AddBlocks([]*externalapi.DomainBlock{block})
}

// AddBlocks stores the given blocks without touching the canonical chain
func (cm *chainManager) AddBlocks(blocks []*externalapi.DomainBlock) error {
	cm.chainLock.Lock()
	defer cm.chainLock.Unlock()

	stagingArea := model.NewStagingArea()
	for _, block := range blocks {
		err := cm.stageBlock(stagingArea, block)
		if err != nil {
			return err
		}
	}
	return staging.CommitAllChanges(cm.databaseContext, stagingArea)
}

func (cm *chainManager) stageBlock(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	if block.Header == nil || block.Body == nil {
		return errors.New("a block must have both a header and a body")
	}
	blockHash := ledgerhashing.BlockHash(block)

	if block.Transactions != nil {
		if len(block.Transactions) != len(block.Body.TransactionHashes) {
			return errors.Errorf("block %s has %d transactions but its body lists %d",
				blockHash, len(block.Transactions), len(block.Body.TransactionHashes))
		}
		for i, transaction := range block.Transactions {
			transactionID := ledgerhashing.TransactionID(transaction)
			if !transactionID.Equal(block.Body.TransactionHashes[i]) {
				return errors.Errorf("transaction %d of block %s has ID %s but its body lists %s",
					i, blockHash, transactionID, block.Body.TransactionHashes[i])
			}
			cm.transactionStore.Stage(stagingArea, transactionID, transaction)
		}
	}

	log.Debugf("Staging block %s at height %d", blockHash, block.Header.Height)
	cm.blockHeaderStore.Stage(stagingArea, blockHash, block.Header)
	cm.blockBodyStore.Stage(stagingArea, blockHash, block.Body)
	return nil
}

// AppendCanonicalBlock makes the given stored block the new canonical tip.
// The block must extend the current tip, or be the genesis block of an
// empty chain.
func (cm *chainManager) AppendCanonicalBlock(blockHash *externalapi.DomainHash) error {
	cm.chainLock.Lock()
	defer cm.chainLock.Unlock()

	stagingArea := model.NewStagingArea()
	block, found, err := cm.block(stagingArea, blockHash, false)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(model.ErrInvalidState, "block %s is not stored", blockHash)
	}

	chainState, err := cm.chainState(stagingArea)
	if err != nil {
		return err
	}
	if chainState.CurrentBlockHash == nil {
		if block.Header.Height != externalapi.GenesisBlockHeight {
			return errors.Wrapf(model.ErrInvalidState, "the first canonical block must be at height %d, "+
				"but block %s is at height %d", externalapi.GenesisBlockHeight, blockHash, block.Header.Height)
		}
	} else {
		if block.Header.Height != chainState.CurrentHeight+1 {
			return errors.Wrapf(model.ErrInvalidState, "block %s is at height %d, but the canonical tip is at "+
				"height %d", blockHash, block.Header.Height, chainState.CurrentHeight)
		}
		if !block.Header.PreviousBlockHash.Equal(chainState.CurrentBlockHash) {
			return errors.Wrapf(model.ErrInvalidState, "block %s does not extend the canonical tip %s",
				blockHash, chainState.CurrentBlockHash)
		}
	}

	cm.canonicalChainStore.Stage(stagingArea, block.Header.Height, blockHash)
	cm.chainStateStore.Stage(stagingArea, cm.chainID, &externalapi.ChainState{
		CurrentBlockHash: blockHash,
		CurrentHeight:    block.Header.Height,
	})
	err = cm.stageIndexedSideChains(stagingArea, block.Body)
	if err != nil {
		return err
	}

	err = staging.CommitAllChanges(cm.databaseContext, stagingArea)
	if err != nil {
		return err
	}
	log.Infof("Block %s is the new canonical tip at height %d", blockHash, block.Header.Height)
	return nil
}
