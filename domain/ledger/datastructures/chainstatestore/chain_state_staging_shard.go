package chainstatestore

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

type chainStateStagingShard struct {
	store *chainStateStore
	toAdd map[externalapi.DomainChainID]*externalapi.ChainState
}

func (css *chainStateStore) stagingShard(stagingArea *model.StagingArea) *chainStateStagingShard {
	return stagingArea.GetOrCreateShard(css.shardID, func() model.StagingShard {
		return &chainStateStagingShard{
			store: css,
			toAdd: make(map[externalapi.DomainChainID]*externalapi.ChainState),
		}
	}).(*chainStateStagingShard)
}

func (csss *chainStateStagingShard) Commit(dbTx model.DBTransaction) error {
	for chainID, chainState := range csss.toAdd {
		chainID := chainID
		chainStateBytes := protoserialization.Marshal(serialization.ChainStateToDbChainState(chainState))
		err := dbTx.Put(csss.store.chainIDAsKey(&chainID), chainStateBytes)
		if err != nil {
			return err
		}
		csss.store.cache.Remove(chainID)
	}
	return nil
}

func (csss *chainStateStagingShard) isStaged() bool {
	return len(csss.toAdd) != 0
}
