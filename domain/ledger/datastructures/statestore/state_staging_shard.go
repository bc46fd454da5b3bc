package statestore

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
)

type stateStagingShard struct {
	store *stateStore
	toSet map[string]*externalapi.StateWrite

	committedMultiset model.Multiset
}

func (ss *stateStore) stagingShard(stagingArea *model.StagingArea) *stateStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDState, func() model.StagingShard {
		return &stateStagingShard{
			store: ss,
			toSet: make(map[string]*externalapi.StateWrite),
		}
	}).(*stateStagingShard)
}

func (sss *stateStagingShard) Commit(dbTx model.DBTransaction) error {
	if len(sss.toSet) == 0 {
		return nil
	}

	commitment, err := sss.store.multiset(dbTx)
	if err != nil {
		return err
	}

	for _, write := range sss.toSet {
		err := sss.store.applyToMultiset(dbTx, commitment, write)
		if err != nil {
			return err
		}

		key := sss.store.pathAsKey(write.Path)
		if len(write.Value) == 0 {
			err = dbTx.Delete(key)
		} else {
			err = dbTx.Put(key, write.Value)
		}
		if err != nil {
			return err
		}
		sss.store.cache.Remove(write.Path.MapKey())
	}

	err = dbTx.Put(sss.store.commitmentKey, commitment.Serialize())
	if err != nil {
		return err
	}
	sss.store.invalidateMultiset()
	sss.committedMultiset = commitment
	return nil
}

// OnCommitted caches the written values and the new multiset. Until then a
// reader falls through to the database, which still holds the old values.
func (sss *stateStagingShard) OnCommitted() {
	if sss.committedMultiset == nil {
		return
	}
	for pathKey, write := range sss.toSet {
		if len(write.Value) == 0 {
			sss.store.cache.Remove(pathKey)
			continue
		}
		sss.store.cache.Add(pathKey, write.Value)
	}
	sss.store.setMultiset(sss.committedMultiset)
}

// committedValue returns the value of path as currently stored in the database
func (ss *stateStore) committedValue(dbContext model.DBReader, path *externalapi.StatePath) ([]byte, bool, error) {
	value, err := dbContext.Get(ss.pathAsKey(path))
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (sss *stateStagingShard) isStaged() bool {
	return len(sss.toSet) != 0
}
