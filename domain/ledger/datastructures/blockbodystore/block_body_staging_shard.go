package blockbodystore

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

type blockBodyStagingShard struct {
	store    *blockBodyStore
	toAdd    map[externalapi.DomainHash]*externalapi.DomainBlockBody
	toDelete map[externalapi.DomainHash]struct{}
}

func (bbs *blockBodyStore) stagingShard(stagingArea *model.StagingArea) *blockBodyStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockBody, func() model.StagingShard {
		return &blockBodyStagingShard{
			store:    bbs,
			toAdd:    make(map[externalapi.DomainHash]*externalapi.DomainBlockBody),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockBodyStagingShard)
}

func (bbss *blockBodyStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, body := range bbss.toAdd {
		hash := hash
		bodyBytes := protoserialization.Marshal(serialization.DomainBlockBodyToDbBlockBody(body))
		err := dbTx.Put(bbss.store.hashAsKey(&hash), bodyBytes)
		if err != nil {
			return err
		}
		bbss.store.cache.Remove(hash)
	}

	for hash := range bbss.toDelete {
		hash := hash
		err := dbTx.Delete(bbss.store.hashAsKey(&hash))
		if err != nil {
			return err
		}
		bbss.store.cache.Remove(hash)
	}

	return nil
}

func (bbss *blockBodyStagingShard) isStaged() bool {
	return len(bbss.toAdd) != 0 || len(bbss.toDelete) != 0
}
