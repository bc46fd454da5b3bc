package transactionstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
	"github.com/pkg/errors"
)

var bucketName = []byte("transactions")

// transactionStore represents a store of transactions keyed by their id
type transactionStore struct {
	cache  *lru.Cache[externalapi.DomainHash, *externalapi.DomainTransaction]
	bucket model.DBBucket
}

// New instantiates a new TransactionStore
func New(prefixBucket model.DBBucket, cacheSize int) (model.TransactionStore, error) {
	cache, err := lru.New[externalapi.DomainHash, *externalapi.DomainTransaction](cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create the transaction cache")
	}
	return &transactionStore{
		cache:  cache,
		bucket: prefixBucket.Bucket(bucketName),
	}, nil
}

// Stage stages the given transaction under transactionID
func (ts *transactionStore) Stage(stagingArea *model.StagingArea, transactionID *externalapi.DomainHash,
	transaction *externalapi.DomainTransaction) {

	ts.stagingShard(stagingArea).toAdd[*transactionID] = transaction.Clone()
}

func (ts *transactionStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ts.stagingShard(stagingArea).isStaged()
}

// Transaction gets the transaction with the given id
func (ts *transactionStore) Transaction(dbContext model.DBReader, stagingArea *model.StagingArea,
	transactionID *externalapi.DomainHash) (*externalapi.DomainTransaction, error) {

	if transaction, ok := ts.stagingShard(stagingArea).toAdd[*transactionID]; ok {
		return transaction.Clone(), nil
	}

	if transaction, ok := ts.cache.Get(*transactionID); ok {
		return transaction.Clone(), nil
	}

	transactionBytes, err := dbContext.Get(ts.transactionIDAsKey(transactionID))
	if err != nil {
		return nil, err
	}
	dbTransaction := &serialization.DbTransaction{}
	err = protoserialization.Unmarshal(transactionBytes, dbTransaction)
	if err != nil {
		return nil, err
	}
	transaction := serialization.DbTransactionToDomainTransaction(dbTransaction)
	ts.cache.Add(*transactionID, transaction)
	return transaction.Clone(), nil
}

// HasTransaction returns whether a transaction with the given id exists in the store
func (ts *transactionStore) HasTransaction(dbContext model.DBReader, stagingArea *model.StagingArea,
	transactionID *externalapi.DomainHash) (bool, error) {

	if _, ok := ts.stagingShard(stagingArea).toAdd[*transactionID]; ok {
		return true, nil
	}
	if ts.cache.Contains(*transactionID) {
		return true, nil
	}
	return dbContext.Has(ts.transactionIDAsKey(transactionID))
}

func (ts *transactionStore) ClearCache() {
	ts.cache.Purge()
}

func (ts *transactionStore) transactionIDAsKey(transactionID *externalapi.DomainHash) model.DBKey {
	return ts.bucket.Key(transactionID.ByteSlice())
}
