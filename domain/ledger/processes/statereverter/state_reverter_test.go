package statereverter

import (
	"testing"

	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/statestore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/transactiontracestore"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/processes/statemanager"
	"github.com/kaspanet/ledgerd/domain/ledger/processes/tracemanager"
	"github.com/kaspanet/ledgerd/infrastructure/db/database/ldb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type testContext struct {
	traceManager  model.TraceManager
	stateManager  model.StateManager
	stateReverter model.StateReverter
}

func prepareForTest(t *testing.T) *testContext {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	dbManager := database.New(db)

	prefixBucket := database.MakeBucket([]byte("0a0b0c0d"))
	traceStore, err := transactiontracestore.New(prefixBucket, 10)
	require.NoError(t, err)
	stateStore, err := statestore.New(prefixBucket, 10)
	require.NoError(t, err)

	traceManager := tracemanager.New(dbManager, traceStore)
	stateManager := statemanager.New(dbManager, stateStore)
	return &testContext{
		traceManager:  traceManager,
		stateManager:  stateManager,
		stateReverter: New(dbManager, traceManager, stateManager),
	}
}

func hashFromByte(b byte) *externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b})
}

// execute stores trace under disambiguationHash and applies its new values
func (tc *testContext) execute(t *testing.T, trace *externalapi.TransactionTrace, disambiguationHash *externalapi.DomainHash) {
	require.NoError(t, tc.traceManager.AddTransactionTrace(trace, disambiguationHash))
	writes := make(map[string]*externalapi.StateWrite)
	for _, change := range trace.StateChanges {
		writes[change.Path.MapKey()] = &externalapi.StateWrite{Path: change.Path, Value: change.NewValue}
	}
	require.NoError(t, tc.stateManager.PipelineSetAndCommit(writes))
}

func TestRollbackStateForTransactions(t *testing.T) {
	tc := prepareForTest(t)
	disambiguationHash := hashFromByte(0xd)

	balance := &externalapi.StatePath{ContractAddress: []byte("token"), Key: []byte("balance")}
	created := &externalapi.StatePath{ContractAddress: []byte("token"), Key: []byte("created")}
	require.NoError(t, tc.stateManager.PipelineSetAndCommit(map[string]*externalapi.StateWrite{
		balance.MapKey(): {Path: balance, Value: []byte("100")},
	}))
	commitmentBefore, err := tc.stateManager.GetCommitment()
	require.NoError(t, err)

	// Two transactions touch the same path. The second one also creates a new path.
	first := &externalapi.TransactionTrace{
		TransactionID: hashFromByte(1),
		StateChanges: []*externalapi.StateChange{
			{Path: balance, OriginalValue: []byte("100"), NewValue: []byte("90")},
		},
	}
	second := &externalapi.TransactionTrace{
		TransactionID: hashFromByte(2),
		StateChanges: []*externalapi.StateChange{
			{Path: balance, OriginalValue: []byte("90"), NewValue: []byte("80")},
			{Path: created, OriginalValue: nil, NewValue: []byte("yes")},
		},
	}
	tc.execute(t, first, disambiguationHash)
	tc.execute(t, second, disambiguationHash)

	err = tc.stateReverter.RollbackStateForTransactions(
		[]*externalapi.DomainHash{first.TransactionID, second.TransactionID}, disambiguationHash)
	require.NoError(t, err)

	value, found, err := tc.stateManager.GetState(balance)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("100"), value)

	_, found, err = tc.stateManager.GetState(created)
	require.NoError(t, err)
	require.False(t, found, "a path created by a reverted transaction must be deleted")

	commitmentAfter, err := tc.stateManager.GetCommitment()
	require.NoError(t, err)
	require.True(t, commitmentAfter.Equal(commitmentBefore))
}

func TestRollbackWithMissingTraceChangesNothing(t *testing.T) {
	tc := prepareForTest(t)
	disambiguationHash := hashFromByte(0xd)

	path := &externalapi.StatePath{ContractAddress: []byte("token"), Key: []byte("balance")}
	trace := &externalapi.TransactionTrace{
		TransactionID: hashFromByte(1),
		StateChanges:  []*externalapi.StateChange{{Path: path, OriginalValue: []byte("1"), NewValue: []byte("2")}},
	}
	tc.execute(t, trace, disambiguationHash)

	err := tc.stateReverter.RollbackStateForTransactions(
		[]*externalapi.DomainHash{trace.TransactionID, hashFromByte(2)}, disambiguationHash)
	require.True(t, errors.Is(err, model.ErrMissingTransactionTrace), "unexpected error %v", err)

	value, _, err := tc.stateManager.GetState(path)
	require.NoError(t, err)
	require.Equal(t, []byte("2"), value)

	// The trace is keyed by the disambiguation hash it was stored with
	err = tc.stateReverter.RollbackStateForTransactions([]*externalapi.DomainHash{trace.TransactionID}, nil)
	require.True(t, errors.Is(err, model.ErrMissingTransactionTrace), "unexpected error %v", err)
}
