package statestore

import (
	"encoding/binary"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/multiset"
	"github.com/pkg/errors"
)

// StatePrefix is the bucket name of the world state
var StatePrefix = []byte("st")

var commitmentKeyName = []byte("state-commitment")

// stateStore keeps the world state and a multiset commitment over every
// (path, value) pair in it. An empty value means that the path is absent.
type stateStore struct {
	cache         *lru.Cache[string, []byte]
	bucket        model.DBBucket
	commitmentKey model.DBKey

	multisetLock   sync.Mutex
	cachedMultiset model.Multiset
}

// New instantiates a new StateStore
func New(prefixBucket model.DBBucket, cacheSize int) (model.StateStore, error) {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create the state cache")
	}
	return &stateStore{
		cache:         cache,
		bucket:        prefixBucket.Bucket(StatePrefix),
		commitmentKey: prefixBucket.Key(commitmentKeyName),
	}, nil
}

// Stage stages value for path. An empty value stages the removal of path.
func (ss *stateStore) Stage(stagingArea *model.StagingArea, path *externalapi.StatePath, value []byte) {
	var valueClone []byte
	if len(value) != 0 {
		valueClone = make([]byte, len(value))
		copy(valueClone, value)
	}
	ss.stagingShard(stagingArea).toSet[path.MapKey()] = &externalapi.StateWrite{
		Path:  path.Clone(),
		Value: valueClone,
	}
}

func (ss *stateStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ss.stagingShard(stagingArea).isStaged()
}

// State returns the value at path
func (ss *stateStore) State(dbContext model.DBReader, stagingArea *model.StagingArea,
	path *externalapi.StatePath) ([]byte, error) {

	pathKey := path.MapKey()
	if write, ok := ss.stagingShard(stagingArea).toSet[pathKey]; ok {
		if len(write.Value) == 0 {
			return nil, errors.Wrapf(database.ErrNotFound, "state path %s is staged for deletion", pathKey)
		}
		return cloneValue(write.Value), nil
	}

	if value, ok := ss.cache.Get(pathKey); ok {
		return cloneValue(value), nil
	}

	value, err := dbContext.Get(ss.pathAsKey(path))
	if err != nil {
		return nil, err
	}
	ss.cache.Add(pathKey, value)
	return cloneValue(value), nil
}

// HasState returns whether path currently holds a value
func (ss *stateStore) HasState(dbContext model.DBReader, stagingArea *model.StagingArea,
	path *externalapi.StatePath) (bool, error) {

	pathKey := path.MapKey()
	if write, ok := ss.stagingShard(stagingArea).toSet[pathKey]; ok {
		return len(write.Value) != 0, nil
	}
	if ss.cache.Contains(pathKey) {
		return true, nil
	}
	return dbContext.Has(ss.pathAsKey(path))
}

// Commitment returns the hash of the multiset of all (path, value) pairs,
// including the staged ones
func (ss *stateStore) Commitment(dbContext model.DBReader, stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	commitment, err := ss.multiset(dbContext)
	if err != nil {
		return nil, err
	}
	for _, write := range ss.stagingShard(stagingArea).toSet {
		err := ss.applyToMultiset(dbContext, commitment, write)
		if err != nil {
			return nil, err
		}
	}
	return commitment.Hash(), nil
}

func (ss *stateStore) ClearCache() {
	ss.cache.Purge()
	ss.invalidateMultiset()
}

func (ss *stateStore) invalidateMultiset() {
	ss.multisetLock.Lock()
	defer ss.multisetLock.Unlock()
	ss.cachedMultiset = nil
}

func (ss *stateStore) setMultiset(committed model.Multiset) {
	ss.multisetLock.Lock()
	defer ss.multisetLock.Unlock()
	ss.cachedMultiset = committed
}

// multiset returns a copy of the committed multiset
func (ss *stateStore) multiset(dbContext model.DBReader) (model.Multiset, error) {
	ss.multisetLock.Lock()
	defer ss.multisetLock.Unlock()

	if ss.cachedMultiset != nil {
		return ss.cachedMultiset.Clone(), nil
	}

	multisetBytes, err := dbContext.Get(ss.commitmentKey)
	if database.IsNotFoundError(err) {
		return multiset.New(), nil
	}
	if err != nil {
		return nil, err
	}
	committed, err := multiset.FromBytes(multisetBytes)
	if err != nil {
		return nil, err
	}
	ss.cachedMultiset = committed
	return committed.Clone(), nil
}

// applyToMultiset replaces the committed (path, value) pair of write.Path
// with the written one
func (ss *stateStore) applyToMultiset(dbContext model.DBReader, commitment model.Multiset,
	write *externalapi.StateWrite) error {

	oldValue, exists, err := ss.committedValue(dbContext, write.Path)
	if err != nil {
		return err
	}
	if exists {
		commitment.Remove(multisetElement(write.Path, oldValue))
	}
	if len(write.Value) != 0 {
		commitment.Add(multisetElement(write.Path, write.Value))
	}
	return nil
}

// multisetElement serializes a (path, value) pair as
// varint(len(encodedPath)) || encodedPath || value
func multisetElement(path *externalapi.StatePath, value []byte) []byte {
	encodedPath := path.Encode()
	element := make([]byte, binary.MaxVarintLen64+len(encodedPath)+len(value))
	n := binary.PutUvarint(element, uint64(len(encodedPath)))
	n += copy(element[n:], encodedPath)
	n += copy(element[n:], value)
	return element[:n]
}

func (ss *stateStore) pathAsKey(path *externalapi.StatePath) model.DBKey {
	return ss.bucket.Key(path.Encode())
}

func cloneValue(value []byte) []byte {
	clone := make([]byte, len(value))
	copy(clone, value)
	return clone
}
