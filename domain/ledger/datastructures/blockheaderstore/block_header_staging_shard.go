package blockheaderstore

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

type blockHeaderStagingShard struct {
	store    *blockHeaderStore
	toAdd    map[externalapi.DomainHash]*externalapi.DomainBlockHeader
	toDelete map[externalapi.DomainHash]struct{}
}

func (bhs *blockHeaderStore) stagingShard(stagingArea *model.StagingArea) *blockHeaderStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockHeader, func() model.StagingShard {
		return &blockHeaderStagingShard{
			store:    bhs,
			toAdd:    make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockHeaderStagingShard)
}

func (bhss *blockHeaderStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, header := range bhss.toAdd {
		hash := hash
		headerBytes := protoserialization.Marshal(serialization.DomainBlockHeaderToDbBlockHeader(header))
		err := dbTx.Put(bhss.store.hashAsKey(&hash), headerBytes)
		if err != nil {
			return err
		}
		bhss.store.cache.Remove(hash)
	}

	for hash := range bhss.toDelete {
		hash := hash
		err := dbTx.Delete(bhss.store.hashAsKey(&hash))
		if err != nil {
			return err
		}
		bhss.store.cache.Remove(hash)
	}

	return nil
}

func (bhss *blockHeaderStagingShard) isStaged() bool {
	return len(bhss.toAdd) != 0 || len(bhss.toDelete) != 0
}
