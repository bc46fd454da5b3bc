package canonicalchainstore

import (
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/pkg/errors"
)

var bucketName = []byte("canonical-hash-by-height")

// canonicalChainStore maps every canonical height to the hash of the block at that height
type canonicalChainStore struct {
	cache  *lru.Cache[uint64, *externalapi.DomainHash]
	bucket model.DBBucket
}

// New instantiates a new CanonicalChainStore
func New(prefixBucket model.DBBucket, cacheSize int) (model.CanonicalChainStore, error) {
	cache, err := lru.New[uint64, *externalapi.DomainHash](cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create the canonical chain cache")
	}
	return &canonicalChainStore{
		cache:  cache,
		bucket: prefixBucket.Bucket(bucketName),
	}, nil
}

// Stage stages blockHash as the canonical block at height
func (ccs *canonicalChainStore) Stage(stagingArea *model.StagingArea, height uint64, blockHash *externalapi.DomainHash) {
	stagingShard := ccs.stagingShard(stagingArea)
	delete(stagingShard.toDelete, height)
	stagingShard.toAdd[height] = blockHash
}

// Delete stages the removal of the canonical block at height
func (ccs *canonicalChainStore) Delete(stagingArea *model.StagingArea, height uint64) {
	stagingShard := ccs.stagingShard(stagingArea)
	delete(stagingShard.toAdd, height)
	stagingShard.toDelete[height] = struct{}{}
}

func (ccs *canonicalChainStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ccs.stagingShard(stagingArea).isStaged()
}

// CanonicalHash returns the hash of the canonical block at height
func (ccs *canonicalChainStore) CanonicalHash(dbContext model.DBReader, stagingArea *model.StagingArea,
	height uint64) (*externalapi.DomainHash, error) {

	stagingShard := ccs.stagingShard(stagingArea)

	if _, ok := stagingShard.toDelete[height]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "canonical height %d is staged for deletion", height)
	}

	if blockHash, ok := stagingShard.toAdd[height]; ok {
		return blockHash, nil
	}

	if blockHash, ok := ccs.cache.Get(height); ok {
		return blockHash, nil
	}

	blockHashBytes, err := dbContext.Get(ccs.heightAsKey(height))
	if err != nil {
		return nil, err
	}
	blockHash, err := externalapi.NewDomainHashFromByteSlice(blockHashBytes)
	if err != nil {
		return nil, err
	}
	ccs.cache.Add(height, blockHash)
	return blockHash, nil
}

func (ccs *canonicalChainStore) ClearCache() {
	ccs.cache.Purge()
}

// heightAsKey encodes the height in big endian so that the keys are ordered by height
func (ccs *canonicalChainStore) heightAsKey(height uint64) model.DBKey {
	var heightBytes [8]byte
	binary.BigEndian.PutUint64(heightBytes[:], height)
	return ccs.bucket.Key(heightBytes[:])
}
