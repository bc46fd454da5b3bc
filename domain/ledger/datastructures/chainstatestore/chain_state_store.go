package chainstatestore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
	"github.com/pkg/errors"
)

var (
	bucketName          = []byte("chain-states")
	sideChainBucketName = []byte("side-chain-states")
)

// chainStateStore keeps chain states keyed by chain id
type chainStateStore struct {
	cache   *lru.Cache[externalapi.DomainChainID, *externalapi.ChainState]
	bucket  model.DBBucket
	shardID model.StagingShardID
}

// New instantiates a new ChainStateStore for the canonical pointers of every
// chain in the database. Each ledger only writes the entry of its own chain.
func New(rootBucket model.DBBucket, cacheSize int) (model.ChainStateStore, error) {
	return newChainStateStore(rootBucket.Bucket(bucketName), model.StagingShardIDChainState, cacheSize)
}

// NewSideChainStateStore instantiates a new ChainStateStore for the side
// chains indexed by one chain. prefixBucket must be scoped to the indexing
// chain, so that ledgers sharing a database never see each other's records.
func NewSideChainStateStore(prefixBucket model.DBBucket, cacheSize int) (model.ChainStateStore, error) {
	return newChainStateStore(prefixBucket.Bucket(sideChainBucketName), model.StagingShardIDSideChainState, cacheSize)
}

func newChainStateStore(bucket model.DBBucket, shardID model.StagingShardID,
	cacheSize int) (model.ChainStateStore, error) {

	cache, err := lru.New[externalapi.DomainChainID, *externalapi.ChainState](cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create the chain state cache")
	}
	return &chainStateStore{
		cache:   cache,
		bucket:  bucket,
		shardID: shardID,
	}, nil
}

// Stage stages the given chain state for chainID
func (css *chainStateStore) Stage(stagingArea *model.StagingArea, chainID *externalapi.DomainChainID,
	chainState *externalapi.ChainState) {

	css.stagingShard(stagingArea).toAdd[*chainID] = chainState.Clone()
}

func (css *chainStateStore) IsStaged(stagingArea *model.StagingArea) bool {
	return css.stagingShard(stagingArea).isStaged()
}

// ChainState returns the chain state of chainID
func (css *chainStateStore) ChainState(dbContext model.DBReader, stagingArea *model.StagingArea,
	chainID *externalapi.DomainChainID) (*externalapi.ChainState, error) {

	stagingShard := css.stagingShard(stagingArea)

	if chainState, ok := stagingShard.toAdd[*chainID]; ok {
		return chainState.Clone(), nil
	}

	if chainState, ok := css.cache.Get(*chainID); ok {
		return chainState.Clone(), nil
	}

	chainStateBytes, err := dbContext.Get(css.chainIDAsKey(chainID))
	if err != nil {
		return nil, err
	}
	dbChainState := &serialization.DbChainState{}
	err = protoserialization.Unmarshal(chainStateBytes, dbChainState)
	if err != nil {
		return nil, err
	}
	chainState, err := serialization.DbChainStateToChainState(dbChainState)
	if err != nil {
		return nil, err
	}
	css.cache.Add(*chainID, chainState)
	return chainState.Clone(), nil
}

// HasChainState returns whether a chain state was ever stored for chainID
func (css *chainStateStore) HasChainState(dbContext model.DBReader, stagingArea *model.StagingArea,
	chainID *externalapi.DomainChainID) (bool, error) {

	if _, ok := css.stagingShard(stagingArea).toAdd[*chainID]; ok {
		return true, nil
	}
	if css.cache.Contains(*chainID) {
		return true, nil
	}
	return dbContext.Has(css.chainIDAsKey(chainID))
}

// AllChainStates returns every chain state in the store's bucket, including
// the staged ones
func (css *chainStateStore) AllChainStates(dbContext model.DBReader, stagingArea *model.StagingArea) (
	map[externalapi.DomainChainID]*externalapi.ChainState, error) {

	cursor, err := dbContext.Cursor(css.bucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	chainStates := make(map[externalapi.DomainChainID]*externalapi.ChainState)
	for ok := cursor.First(); ok; ok = cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return nil, err
		}
		chainID, err := externalapi.NewDomainChainIDFromString(string(key.Suffix()))
		if err != nil {
			return nil, errors.Wrapf(err, "malformed chain state key %x", key.Bytes())
		}
		chainStateBytes, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		dbChainState := &serialization.DbChainState{}
		err = protoserialization.Unmarshal(chainStateBytes, dbChainState)
		if err != nil {
			return nil, err
		}
		chainState, err := serialization.DbChainStateToChainState(dbChainState)
		if err != nil {
			return nil, err
		}
		chainStates[*chainID] = chainState
	}

	for chainID, chainState := range css.stagingShard(stagingArea).toAdd {
		chainStates[chainID] = chainState.Clone()
	}
	return chainStates, nil
}

func (css *chainStateStore) ClearCache() {
	css.cache.Purge()
}

func (css *chainStateStore) chainIDAsKey(chainID *externalapi.DomainChainID) model.DBKey {
	return css.bucket.Key([]byte(chainID.String()))
}
