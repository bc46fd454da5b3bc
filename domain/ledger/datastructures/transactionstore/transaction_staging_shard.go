package transactionstore

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

type transactionStagingShard struct {
	store *transactionStore
	toAdd map[externalapi.DomainHash]*externalapi.DomainTransaction
}

func (ts *transactionStore) stagingShard(stagingArea *model.StagingArea) *transactionStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDTransaction, func() model.StagingShard {
		return &transactionStagingShard{
			store: ts,
			toAdd: make(map[externalapi.DomainHash]*externalapi.DomainTransaction),
		}
	}).(*transactionStagingShard)
}

func (tss *transactionStagingShard) Commit(dbTx model.DBTransaction) error {
	for transactionID, transaction := range tss.toAdd {
		transactionID := transactionID
		transactionBytes := protoserialization.Marshal(serialization.DomainTransactionToDbTransaction(transaction))
		err := dbTx.Put(tss.store.transactionIDAsKey(&transactionID), transactionBytes)
		if err != nil {
			return err
		}
		tss.store.cache.Remove(transactionID)
	}
	return nil
}

func (tss *transactionStagingShard) isStaged() bool {
	return len(tss.toAdd) != 0
}
