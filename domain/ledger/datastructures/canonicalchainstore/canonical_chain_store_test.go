package canonicalchainstore

import (
	"testing"

	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/staging"
	"github.com/kaspanet/ledgerd/infrastructure/db/database/ldb"
	"github.com/stretchr/testify/require"
)

func prepareStoreForTest(t *testing.T) (model.DBManager, model.CanonicalChainStore) {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	store, err := New(database.MakeBucket([]byte("0a0b0c0d")), 10)
	require.NoError(t, err)
	return database.New(db), store
}

func hashForHeight(height uint64) *externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{byte(height), 0xff})
}

func TestCanonicalHashByHeight(t *testing.T) {
	dbManager, store := prepareStoreForTest(t)

	stagingArea := model.NewStagingArea()
	require.False(t, store.IsStaged(stagingArea))
	for height := uint64(1); height <= 3; height++ {
		store.Stage(stagingArea, height, hashForHeight(height))
	}
	require.True(t, store.IsStaged(stagingArea))

	// Staged hashes are visible through their own staging area only
	blockHash, err := store.CanonicalHash(dbManager, stagingArea, 2)
	require.NoError(t, err)
	require.True(t, blockHash.Equal(hashForHeight(2)))
	_, err = store.CanonicalHash(dbManager, model.NewStagingArea(), 2)
	require.True(t, database.IsNotFoundError(err), "expected a not found error, got %v", err)

	require.NoError(t, staging.CommitAllChanges(dbManager, stagingArea))

	store.ClearCache()
	for height := uint64(1); height <= 3; height++ {
		blockHash, err := store.CanonicalHash(dbManager, model.NewStagingArea(), height)
		require.NoError(t, err)
		require.True(t, blockHash.Equal(hashForHeight(height)))
	}
}

func TestDeleteCanonicalHash(t *testing.T) {
	dbManager, store := prepareStoreForTest(t)

	stagingArea := model.NewStagingArea()
	store.Stage(stagingArea, 1, hashForHeight(1))
	store.Stage(stagingArea, 2, hashForHeight(2))
	require.NoError(t, staging.CommitAllChanges(dbManager, stagingArea))

	// Warm the cache so that the deletion has to evict it
	_, err := store.CanonicalHash(dbManager, model.NewStagingArea(), 2)
	require.NoError(t, err)

	stagingArea = model.NewStagingArea()
	store.Delete(stagingArea, 2)
	_, err = store.CanonicalHash(dbManager, stagingArea, 2)
	require.True(t, database.IsNotFoundError(err), "expected a not found error, got %v", err)
	require.NoError(t, staging.CommitAllChanges(dbManager, stagingArea))

	_, err = store.CanonicalHash(dbManager, model.NewStagingArea(), 2)
	require.True(t, database.IsNotFoundError(err), "expected a not found error, got %v", err)
	blockHash, err := store.CanonicalHash(dbManager, model.NewStagingArea(), 1)
	require.NoError(t, err)
	require.True(t, blockHash.Equal(hashForHeight(1)))

	// Staging a height again cancels its staged deletion
	stagingArea = model.NewStagingArea()
	store.Delete(stagingArea, 1)
	store.Stage(stagingArea, 1, hashForHeight(5))
	blockHash, err = store.CanonicalHash(dbManager, stagingArea, 1)
	require.NoError(t, err)
	require.True(t, blockHash.Equal(hashForHeight(5)))
}
