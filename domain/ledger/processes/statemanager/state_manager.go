package statemanager

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
)

type stateManager struct {
	databaseContext model.DBManager
	stateStore      model.StateStore
}

// New instantiates a new StateManager
func New(databaseContext model.DBManager, stateStore model.StateStore) model.StateManager {
	return &stateManager{
		databaseContext: databaseContext,
		stateStore:      stateStore,
	}
}

// PipelineSet stages all the given writes as one bulk write
func (sm *stateManager) PipelineSet(stagingArea *model.StagingArea, writes map[string]*externalapi.StateWrite) {
	for _, write := range writes {
		sm.stateStore.Stage(stagingArea, write.Path, write.Value)
	}
}

// PipelineSetAndCommit writes all the given writes atomically
func (sm *stateManager) PipelineSetAndCommit(writes map[string]*externalapi.StateWrite) error {
	stagingArea := model.NewStagingArea()
	sm.PipelineSet(stagingArea, writes)
	return staging.CommitAllChanges(sm.databaseContext, stagingArea)
}

func (sm *stateManager) State(dbContext model.DBReader, stagingArea *model.StagingArea,
	path *externalapi.StatePath) ([]byte, bool, error) {

	value, err := sm.stateStore.State(dbContext, stagingArea, path)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (sm *stateManager) GetState(path *externalapi.StatePath) ([]byte, bool, error) {
	return sm.State(sm.databaseContext, model.NewStagingArea(), path)
}

func (sm *stateManager) Commitment(dbContext model.DBReader, stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	return sm.stateStore.Commitment(dbContext, stagingArea)
}

func (sm *stateManager) GetCommitment() (*externalapi.DomainHash, error) {
	return sm.stateStore.Commitment(sm.databaseContext, model.NewStagingArea())
}
