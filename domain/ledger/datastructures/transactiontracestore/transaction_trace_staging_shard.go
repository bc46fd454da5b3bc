package transactiontracestore

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

type transactionTraceStagingShard struct {
	store *transactionTraceStore
	toAdd map[string]*externalapi.TransactionTrace
}

func (tts *transactionTraceStore) stagingShard(stagingArea *model.StagingArea) *transactionTraceStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDTransactionTrace, func() model.StagingShard {
		return &transactionTraceStagingShard{
			store: tts,
			toAdd: make(map[string]*externalapi.TransactionTrace),
		}
	}).(*transactionTraceStagingShard)
}

func (ttss *transactionTraceStagingShard) Commit(dbTx model.DBTransaction) error {
	for key, trace := range ttss.toAdd {
		traceBytes := protoserialization.Marshal(serialization.TransactionTraceToDbTransactionTrace(trace))
		err := dbTx.Put(ttss.store.traceKey(key), traceBytes)
		if err != nil {
			return err
		}
		ttss.store.cache.Remove(key)
	}
	return nil
}

func (ttss *transactionTraceStagingShard) isStaged() bool {
	return len(ttss.toAdd) != 0
}
