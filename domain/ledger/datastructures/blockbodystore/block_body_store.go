package blockbodystore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
	"github.com/pkg/errors"
)

var bucketName = []byte("block-bodies")

// blockBodyStore represents a store of block bodies
type blockBodyStore struct {
	cache  *lru.Cache[externalapi.DomainHash, *externalapi.DomainBlockBody]
	bucket model.DBBucket
}

// New instantiates a new BlockBodyStore
func New(prefixBucket model.DBBucket, cacheSize int) (model.BlockBodyStore, error) {
	cache, err := lru.New[externalapi.DomainHash, *externalapi.DomainBlockBody](cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create the block body cache")
	}
	return &blockBodyStore{
		cache:  cache,
		bucket: prefixBucket.Bucket(bucketName),
	}, nil
}

// Stage stages the given block body for the given blockHash
func (bbs *blockBodyStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, blockBody *externalapi.DomainBlockBody) {
	stagingShard := bbs.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = blockBody.Clone()
}

func (bbs *blockBodyStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bbs.stagingShard(stagingArea).isStaged()
}

// BlockBody gets the block body associated with the given blockHash
func (bbs *blockBodyStore) BlockBody(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.DomainBlockBody, error) {

	stagingShard := bbs.stagingShard(stagingArea)

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "block body %s is staged for deletion", blockHash)
	}

	if body, ok := stagingShard.toAdd[*blockHash]; ok {
		return body.Clone(), nil
	}

	if body, ok := bbs.cache.Get(*blockHash); ok {
		return body.Clone(), nil
	}

	bodyBytes, err := dbContext.Get(bbs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	body, err := bbs.deserializeBody(bodyBytes)
	if err != nil {
		return nil, err
	}
	bbs.cache.Add(*blockHash, body)
	return body.Clone(), nil
}

// HasBlockBody returns whether a block body with a given hash exists in the store.
func (bbs *blockBodyStore) HasBlockBody(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := bbs.stagingShard(stagingArea)

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return false, nil
	}

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if bbs.cache.Contains(*blockHash) {
		return true, nil
	}

	exists, err := dbContext.Has(bbs.hashAsKey(blockHash))
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Delete deletes the block body associated with the given blockHash
func (bbs *blockBodyStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := bbs.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		delete(stagingShard.toAdd, *blockHash)
		return
	}
	stagingShard.toDelete[*blockHash] = struct{}{}
}

func (bbs *blockBodyStore) ClearCache() {
	bbs.cache.Purge()
}

func (bbs *blockBodyStore) deserializeBody(bodyBytes []byte) (*externalapi.DomainBlockBody, error) {
	dbBlockBody := &serialization.DbBlockBody{}
	err := protoserialization.Unmarshal(bodyBytes, dbBlockBody)
	if err != nil {
		return nil, err
	}
	return serialization.DbBlockBodyToDomainBlockBody(dbBlockBody)
}

func (bbs *blockBodyStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bbs.bucket.Key(hash.ByteSlice())
}
