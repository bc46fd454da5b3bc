package canonicalchainstore

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
)

type canonicalChainStagingShard struct {
	store    *canonicalChainStore
	toAdd    map[uint64]*externalapi.DomainHash
	toDelete map[uint64]struct{}
}

func (ccs *canonicalChainStore) stagingShard(stagingArea *model.StagingArea) *canonicalChainStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDCanonicalChain, func() model.StagingShard {
		return &canonicalChainStagingShard{
			store:    ccs,
			toAdd:    make(map[uint64]*externalapi.DomainHash),
			toDelete: make(map[uint64]struct{}),
		}
	}).(*canonicalChainStagingShard)
}

func (ccss *canonicalChainStagingShard) Commit(dbTx model.DBTransaction) error {
	for height, blockHash := range ccss.toAdd {
		err := dbTx.Put(ccss.store.heightAsKey(height), blockHash.ByteSlice())
		if err != nil {
			return err
		}
		ccss.store.cache.Remove(height)
	}

	for height := range ccss.toDelete {
		err := dbTx.Delete(ccss.store.heightAsKey(height))
		if err != nil {
			return err
		}
		ccss.store.cache.Remove(height)
	}

	return nil
}

func (ccss *canonicalChainStagingShard) isStaged() bool {
	return len(ccss.toAdd) != 0 || len(ccss.toDelete) != 0
}
