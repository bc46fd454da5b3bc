package ledger

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/ledgerhashing"
	infrastructuredatabase "github.com/kaspanet/ledgerd/infrastructure/db/database"
	"github.com/kaspanet/ledgerd/infrastructure/db/database/ldb"
	"github.com/stretchr/testify/require"
)

// commitHookDatabase runs a one-shot hook right before the next transaction
// commit reaches the underlying database
type commitHookDatabase struct {
	infrastructuredatabase.Database
	beforeCommit atomic.Pointer[func()]
}

func (db *commitHookDatabase) Begin() (infrastructuredatabase.Transaction, error) {
	dbTx, err := db.Database.Begin()
	if err != nil {
		return nil, err
	}
	return &commitHookTransaction{Transaction: dbTx, db: db}, nil
}

func (db *commitHookDatabase) onNextCommit(hook func()) {
	db.beforeCommit.Store(&hook)
}

type commitHookTransaction struct {
	infrastructuredatabase.Transaction
	db *commitHookDatabase
}

func (tx *commitHookTransaction) Commit() error {
	if hook := tx.db.beforeCommit.Swap(nil); hook != nil {
		(*hook)()
	}
	return tx.Transaction.Commit()
}

// inCommitWindow starts operation from within the commit window of the next
// commit and gives it time to run before the commit proceeds
func inCommitWindow(db *commitHookDatabase, operation func()) <-chan struct{} {
	done := make(chan struct{})
	db.onNextCommit(func() {
		go func() {
			defer close(done)
			operation()
		}()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	})
	return done
}

func prepareHookedDatabase(t *testing.T) *commitHookDatabase {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return &commitHookDatabase{Database: db}
}

func TestStateReadDuringRollbackCommitSeesRolledBackValue(t *testing.T) {
	db := prepareHookedDatabase(t)
	chain, err := NewFactory().NewLedger(&Config{ChainID: &externalapi.DomainChainID{0x0a}}, db, nil)
	require.NoError(t, err)

	genesis := appendCounterBlock(t, chain, nil)
	genesisCommitment, err := chain.GetStateCommitment()
	require.NoError(t, err)
	appendCounterBlock(t, chain, genesis)
	requireCounter(t, chain, 2)

	var readValue []byte
	var readErr error
	done := inCommitWindow(db, func() {
		readValue, _, readErr = chain.GetState(counterPath)
	})

	_, err = chain.RollbackToHeight(genesis.Header.Height)
	require.NoError(t, err)
	<-done

	require.NoError(t, readErr)
	require.Equal(t, []byte{1}, readValue)

	// Nothing read during the commit stays cached
	requireCounter(t, chain, 1)
	commitment, err := chain.GetStateCommitment()
	require.NoError(t, err)
	require.True(t, commitment.Equal(genesisCommitment))
}

func TestStateReversalDuringRollbackCommitKeepsCommitmentConsistent(t *testing.T) {
	db := prepareHookedDatabase(t)
	chainID := &externalapi.DomainChainID{0x0a}
	chain, err := NewFactory().NewLedger(&Config{ChainID: chainID}, db, nil)
	require.NoError(t, err)

	otherPath := &externalapi.StatePath{ContractAddress: []byte("other"), Key: []byte("value")}
	genesis := appendBlock(t, chain, nil,
		[]*externalapi.StateChange{counterChange(nil)},
		[]*externalapi.StateChange{{Path: otherPath, NewValue: []byte("x")}})
	appendCounterBlock(t, chain, genesis)

	// The reversal of the second genesis transaction and the block rollback
	// touch disjoint paths, so both orders end in the same state
	var reversalErr error
	done := inCommitWindow(db, func() {
		reversalErr = chain.RollbackStateForTransactions(genesis.Body.TransactionHashes[1:],
			ledgerhashing.HeaderDisambiguationHash(genesis.Header))
	})

	_, err = chain.RollbackToHeight(genesis.Header.Height)
	require.NoError(t, err)
	<-done
	require.NoError(t, reversalErr)

	requireCounter(t, chain, 1)
	_, found, err := chain.GetState(otherPath)
	require.NoError(t, err)
	require.False(t, found)

	// A chain that only ever held the counter at 1 has the same commitment
	expectedChain, err := NewFactory().NewLedger(&Config{ChainID: &externalapi.DomainChainID{0x0b}}, db, nil)
	require.NoError(t, err)
	appendCounterBlock(t, expectedChain, nil)
	expected, err := expectedChain.GetStateCommitment()
	require.NoError(t, err)

	commitment, err := chain.GetStateCommitment()
	require.NoError(t, err)
	require.True(t, commitment.Equal(expected), "in memory commitment %s, expected %s", commitment, expected)

	reopened, err := NewFactory().NewLedger(&Config{ChainID: chainID}, db, nil)
	require.NoError(t, err)
	commitment, err = reopened.GetStateCommitment()
	require.NoError(t, err)
	require.True(t, commitment.Equal(expected), "stored commitment %s, expected %s", commitment, expected)
}
