package transactiontracestore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
	"github.com/pkg/errors"
)

var bucketName = []byte("transaction-traces")

// transactionTraceStore keeps transaction traces under their disambiguated
// key. Writing a key that already exists overwrites the previous trace.
type transactionTraceStore struct {
	cache  *lru.Cache[string, *externalapi.TransactionTrace]
	bucket model.DBBucket
}

// New instantiates a new TransactionTraceStore
func New(prefixBucket model.DBBucket, cacheSize int) (model.TransactionTraceStore, error) {
	cache, err := lru.New[string, *externalapi.TransactionTrace](cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create the transaction trace cache")
	}
	return &transactionTraceStore{
		cache:  cache,
		bucket: prefixBucket.Bucket(bucketName),
	}, nil
}

// Stage stages trace under key
func (tts *transactionTraceStore) Stage(stagingArea *model.StagingArea, key string, trace *externalapi.TransactionTrace) {
	tts.stagingShard(stagingArea).toAdd[key] = trace.Clone()
}

func (tts *transactionTraceStore) IsStaged(stagingArea *model.StagingArea) bool {
	return tts.stagingShard(stagingArea).isStaged()
}

// TransactionTrace gets the trace stored under key
func (tts *transactionTraceStore) TransactionTrace(dbContext model.DBReader, stagingArea *model.StagingArea,
	key string) (*externalapi.TransactionTrace, error) {

	if trace, ok := tts.stagingShard(stagingArea).toAdd[key]; ok {
		return trace.Clone(), nil
	}

	if trace, ok := tts.cache.Get(key); ok {
		return trace.Clone(), nil
	}

	traceBytes, err := dbContext.Get(tts.traceKey(key))
	if err != nil {
		return nil, err
	}
	dbTrace := &serialization.DbTransactionTrace{}
	err = protoserialization.Unmarshal(traceBytes, dbTrace)
	if err != nil {
		return nil, err
	}
	trace, err := serialization.DbTransactionTraceToTransactionTrace(dbTrace)
	if err != nil {
		return nil, err
	}
	tts.cache.Add(key, trace)
	return trace.Clone(), nil
}

// HasTransactionTrace returns whether a trace is stored under key
func (tts *transactionTraceStore) HasTransactionTrace(dbContext model.DBReader, stagingArea *model.StagingArea,
	key string) (bool, error) {

	if _, ok := tts.stagingShard(stagingArea).toAdd[key]; ok {
		return true, nil
	}
	if tts.cache.Contains(key) {
		return true, nil
	}
	return dbContext.Has(tts.traceKey(key))
}

func (tts *transactionTraceStore) ClearCache() {
	tts.cache.Purge()
}

func (tts *transactionTraceStore) traceKey(key string) model.DBKey {
	return tts.bucket.Key([]byte(key))
}
