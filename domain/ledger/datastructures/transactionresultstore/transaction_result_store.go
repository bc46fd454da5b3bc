package transactionresultstore

import (
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

// TransactionResultPrefix is the bucket name of transaction results
var TransactionResultPrefix = []byte("tr")

type transactionResultStagingShard struct {
	store *transactionResultStore
	toAdd map[externalapi.DomainHash]*externalapi.TransactionResult
}

func (trs *transactionResultStore) stagingShard(stagingArea *model.StagingArea) *transactionResultStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDTransactionResult, func() model.StagingShard {
		return &transactionResultStagingShard{
			store: trs,
			toAdd: make(map[externalapi.DomainHash]*externalapi.TransactionResult),
		}
	}).(*transactionResultStagingShard)
}

func (trss *transactionResultStagingShard) Commit(dbTx model.DBTransaction) error {
	for transactionID, result := range trss.toAdd {
		transactionID := transactionID
		resultBytes := protoserialization.Marshal(serialization.TransactionResultToDbTransactionResult(result))
		err := dbTx.Put(trss.store.transactionIDAsKey(&transactionID), resultBytes)
		if err != nil {
			return err
		}
	}
	return nil
}

// transactionResultStore represents a store of transaction results. Results
// are looked up rarely, so they are not cached.
type transactionResultStore struct {
	bucket model.DBBucket
}

// New instantiates a new TransactionResultStore
func New(prefixBucket model.DBBucket) model.TransactionResultStore {
	return &transactionResultStore{
		bucket: prefixBucket.Bucket(TransactionResultPrefix),
	}
}

// Stage stages the given result under its transaction id
func (trs *transactionResultStore) Stage(stagingArea *model.StagingArea, result *externalapi.TransactionResult) {
	trs.stagingShard(stagingArea).toAdd[*result.TransactionID] = result.Clone()
}

func (trs *transactionResultStore) IsStaged(stagingArea *model.StagingArea) bool {
	return len(trs.stagingShard(stagingArea).toAdd) != 0
}

// TransactionResult gets the result of the transaction with the given id
func (trs *transactionResultStore) TransactionResult(dbContext model.DBReader, stagingArea *model.StagingArea,
	transactionID *externalapi.DomainHash) (*externalapi.TransactionResult, error) {

	if result, ok := trs.stagingShard(stagingArea).toAdd[*transactionID]; ok {
		return result.Clone(), nil
	}

	resultBytes, err := dbContext.Get(trs.transactionIDAsKey(transactionID))
	if err != nil {
		return nil, err
	}
	dbResult := &serialization.DbTransactionResult{}
	err = protoserialization.Unmarshal(resultBytes, dbResult)
	if err != nil {
		return nil, err
	}
	return serialization.DbTransactionResultToTransactionResult(dbResult)
}

func (trs *transactionResultStore) ClearCache() {}

func (trs *transactionResultStore) transactionIDAsKey(transactionID *externalapi.DomainHash) model.DBKey {
	return trs.bucket.Key(transactionID.ByteSlice())
}
