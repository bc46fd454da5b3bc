package blockheaderstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/database/serialization"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
	"github.com/pkg/errors"
)

var bucketName = []byte("block-headers")

// blockHeaderStore represents a store of block headers
type blockHeaderStore struct {
	cache  *lru.Cache[externalapi.DomainHash, *externalapi.DomainBlockHeader]
	bucket model.DBBucket
}

// New instantiates a new BlockHeaderStore
func New(prefixBucket model.DBBucket, cacheSize int) (model.BlockHeaderStore, error) {
	cache, err := lru.New[externalapi.DomainHash, *externalapi.DomainBlockHeader](cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create the block header cache")
	}
	return &blockHeaderStore{
		cache:  cache,
		bucket: prefixBucket.Bucket(bucketName),
	}, nil
}

// Stage stages the given block header for the given blockHash
func (bhs *blockHeaderStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, blockHeader *externalapi.DomainBlockHeader) {
	stagingShard := bhs.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = blockHeader.Clone()
}

func (bhs *blockHeaderStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bhs.stagingShard(stagingArea).isStaged()
}

// BlockHeader gets the block header associated with the given blockHash
func (bhs *blockHeaderStore) BlockHeader(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {

	stagingShard := bhs.stagingShard(stagingArea)

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "block header %s is staged for deletion", blockHash)
	}

	if header, ok := stagingShard.toAdd[*blockHash]; ok {
		return header.Clone(), nil
	}

	if header, ok := bhs.cache.Get(*blockHash); ok {
		return header.Clone(), nil
	}

	headerBytes, err := dbContext.Get(bhs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	header, err := bhs.deserializeHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	bhs.cache.Add(*blockHash, header)
	return header.Clone(), nil
}

// HasBlockHeader returns whether a block header with a given hash exists in the store.
func (bhs *blockHeaderStore) HasBlockHeader(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := bhs.stagingShard(stagingArea)

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return false, nil
	}

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if bhs.cache.Contains(*blockHash) {
		return true, nil
	}

	exists, err := dbContext.Has(bhs.hashAsKey(blockHash))
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Delete deletes the block header associated with the given blockHash
func (bhs *blockHeaderStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := bhs.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		delete(stagingShard.toAdd, *blockHash)
		return
	}
	stagingShard.toDelete[*blockHash] = struct{}{}
}

func (bhs *blockHeaderStore) ClearCache() {
	bhs.cache.Purge()
}

func (bhs *blockHeaderStore) deserializeHeader(headerBytes []byte) (*externalapi.DomainBlockHeader, error) {
	dbBlockHeader := &serialization.DbBlockHeader{}
	err := protoserialization.Unmarshal(headerBytes, dbBlockHeader)
	if err != nil {
		return nil, err
	}
	return serialization.DbBlockHeaderToDomainBlockHeader(dbBlockHeader)
}

func (bhs *blockHeaderStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bhs.bucket.Key(hash.ByteSlice())
}
