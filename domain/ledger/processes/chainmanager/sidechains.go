package chainmanager

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
	"github.com/pkg/errors"
)

func (cm *chainManager) SideChainState(chainID *externalapi.DomainChainID) (*externalapi.ChainState, bool, error) {
	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.sideChainState(model.NewStagingArea(), chainID)
}

func (cm *chainManager) sideChainState(stagingArea *model.StagingArea,
	chainID *externalapi.DomainChainID) (*externalapi.ChainState, bool, error) {

	chainState, err := cm.sideChainStateStore.ChainState(cm.databaseContext, stagingArea, chainID)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return chainState, true, nil
}

// SideChainStates returns the state of every side chain indexed by the
// managed chain, keyed by chain id
func (cm *chainManager) SideChainStates() (map[externalapi.DomainChainID]*externalapi.ChainState, error) {
	cm.chainLock.RLock()
	defer cm.chainLock.RUnlock()

	return cm.sideChainStateStore.AllChainStates(cm.databaseContext, model.NewStagingArea())
}

// SetSideChainHeight records the height up to which a side chain was
// indexed by the managed chain
func (cm *chainManager) SetSideChainHeight(chainID *externalapi.DomainChainID, height uint64) error {
	if chainID.Equal(cm.chainID) {
		return errors.Wrapf(model.ErrInvalidState, "chain %s is the managed chain", chainID)
	}

	cm.chainLock.Lock()
	defer cm.chainLock.Unlock()

	stagingArea := model.NewStagingArea()
	err := cm.stageSideChainHeight(stagingArea, chainID, height)
	if err != nil {
		return err
	}
	return staging.CommitAllChanges(cm.databaseContext, stagingArea)
}

func (cm *chainManager) stageSideChainHeight(stagingArea *model.StagingArea,
	chainID *externalapi.DomainChainID, height uint64) error {

	chainState, found, err := cm.sideChainState(stagingArea, chainID)
	if err != nil {
		return err
	}
	newState := &externalapi.ChainState{CurrentHeight: height}
	if found {
		newState.CurrentBlockHash = chainState.CurrentBlockHash
	}
	cm.sideChainStateStore.Stage(stagingArea, chainID, newState)
	return nil
}

// stageIndexedSideChains advances every side chain indexed by the given
// body to the indexed height
func (cm *chainManager) stageIndexedSideChains(stagingArea *model.StagingArea,
	body *externalapi.DomainBlockBody) error {

	for _, info := range body.IndexedSideChainInfo {
		if info.ChainID.Equal(cm.chainID) {
			continue
		}
		err := cm.stageSideChainHeight(stagingArea, info.ChainID, info.Height)
		if err != nil {
			return err
		}
	}
	return nil
}

// rollbackIndexedSideChains moves every side chain indexed by the given body
// back to just before the indexed height. Bodies must be processed from the
// highest block down, so that the lowest removed block decides the result.
func (cm *chainManager) rollbackIndexedSideChains(stagingArea *model.StagingArea,
	body *externalapi.DomainBlockBody) error {

	for _, info := range body.IndexedSideChainInfo {
		if info.ChainID.Equal(cm.chainID) {
			continue
		}
		height := uint64(0)
		if info.Height > externalapi.GenesisBlockHeight {
			height = info.Height - 1
		}
		err := cm.stageSideChainHeight(stagingArea, info.ChainID, height)
		if err != nil {
			return err
		}
	}
	return nil
}
