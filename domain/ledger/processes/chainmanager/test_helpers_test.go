package chainmanager

import (
	"fmt"
	"testing"

	"github.com/kaspanet/ledgerd/domain/ledger/database"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/blockbodystore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/blockheaderstore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/canonicalchainstore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/chainstatestore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/statestore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/transactionresultstore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/transactionstore"
	"github.com/kaspanet/ledgerd/domain/ledger/datastructures/transactiontracestore"
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/processes/statemanager"
	"github.com/kaspanet/ledgerd/domain/ledger/processes/statereverter"
	"github.com/kaspanet/ledgerd/domain/ledger/processes/tracemanager"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/ledgerhashing"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/merkle"
	"github.com/kaspanet/ledgerd/infrastructure/db/database/ldb"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	testChainID = &externalapi.DomainChainID{0x0a, 0x0b, 0x0c, 0x0d}

	balancePath = &externalapi.StatePath{ContractAddress: []byte("token"), Key: []byte("balance")}
)

func createdPath(height uint64) *externalapi.StatePath {
	return &externalapi.StatePath{ContractAddress: []byte("token"), Key: []byte(fmt.Sprintf("created-%d", height))}
}

type testContext struct {
	t            *testing.T
	chainManager *chainManager
	stateManager model.StateManager

	// blocks[height] is the canonical block at height
	blocks map[uint64]*externalapi.DomainBlock

	// commitments[height] is the state commitment once the block at height was applied
	commitments map[uint64]*externalapi.DomainHash
}

// verifyNoGoroutineLeaks checks for leaked goroutines once the test is
// done. Cleanups run last-in first-out, so it must be called before
// prepareForTest for the check to run after the database is closed.
func verifyNoGoroutineLeaks(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })
}

func prepareForTest(t *testing.T, events chan<- externalapi.ChainEvent) *testContext {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	dbManager := database.New(db)

	prefixBucket := database.MakeBucket([]byte(testChainID.String()))
	blockHeaderStore, err := blockheaderstore.New(prefixBucket, 10)
	require.NoError(t, err)
	blockBodyStore, err := blockbodystore.New(prefixBucket, 10)
	require.NoError(t, err)
	canonicalChainStore, err := canonicalchainstore.New(prefixBucket, 10)
	require.NoError(t, err)
	chainStateStore, err := chainstatestore.New(database.MakeBucket(), 10)
	require.NoError(t, err)
	sideChainStateStore, err := chainstatestore.NewSideChainStateStore(prefixBucket, 10)
	require.NoError(t, err)
	transactionStore, err := transactionstore.New(prefixBucket, 10)
	require.NoError(t, err)
	transactionTraceStore, err := transactiontracestore.New(prefixBucket, 10)
	require.NoError(t, err)
	stateStore, err := statestore.New(prefixBucket, 10)
	require.NoError(t, err)

	traceManager := tracemanager.New(dbManager, transactionTraceStore)
	stateManager := statemanager.New(dbManager, stateStore)
	stateReverter := statereverter.New(dbManager, traceManager, stateManager)

	cm := New(testChainID, dbManager,
		blockHeaderStore, blockBodyStore, canonicalChainStore, chainStateStore,
		sideChainStateStore, transactionStore, transactionresultstore.New(prefixBucket),
		traceManager, stateManager, stateReverter, events)

	return &testContext{
		t:            t,
		chainManager: cm.(*chainManager),
		stateManager: stateManager,
		blocks:       make(map[uint64]*externalapi.DomainBlock),
		commitments:  make(map[uint64]*externalapi.DomainHash),
	}
}

// buildBlock creates the block at height on top of the current tip. Its
// first transaction moves the balance to the block height and creates a
// path of its own. Its second transaction touches nothing.
func (tc *testContext) buildBlock(height uint64,
	sideChainInfo ...*externalapi.SideChainIndexedInfo) (*externalapi.DomainBlock, []*externalapi.TransactionTrace) {

	if sideChainInfo == nil {
		sideChainInfo = []*externalapi.SideChainIndexedInfo{}
	}
	transactions := []*externalapi.DomainTransaction{
		{From: []byte("alice"), To: []byte("token"), IncrementID: height, MethodName: "transfer",
			Params: []byte(fmt.Sprintf("%d", height))},
		{From: []byte("bob"), To: []byte("token"), IncrementID: height, MethodName: "noop"},
	}
	transactionIDs := ledgerhashing.TransactionIDs(transactions)

	var previousBlockHash *externalapi.DomainHash
	if previous, ok := tc.blocks[height-1]; ok {
		previousBlockHash = ledgerhashing.BlockHash(previous)
	}
	block := &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			PreviousBlockHash:            previousBlockHash,
			MerkleTreeRootOfTransactions: merkle.CalculateRoot(transactionIDs),
			MerkleTreeRootOfWorldState:   &externalapi.DomainHash{},
			Height:                       height,
			TimeInMilliseconds:           int64(height) * 1000,
			ChainID:                      testChainID,
			ProducerPublicKey:            []byte("producer"),
		},
		Body: &externalapi.DomainBlockBody{
			TransactionHashes:    transactionIDs,
			IndexedSideChainInfo: sideChainInfo,
		},
		Transactions: transactions,
	}

	var originalBalance []byte
	if height > externalapi.GenesisBlockHeight {
		originalBalance = []byte(fmt.Sprintf("%d", height-1))
	}
	traces := []*externalapi.TransactionTrace{
		{
			TransactionID: transactionIDs[0],
			StateChanges: []*externalapi.StateChange{
				{Path: balancePath, OriginalValue: originalBalance, NewValue: []byte(fmt.Sprintf("%d", height))},
				{Path: createdPath(height), OriginalValue: nil, NewValue: []byte("created")},
			},
		},
		{TransactionID: transactionIDs[1]},
	}
	return block, traces
}

// appendBlock builds the block at the next height, stores it, makes it
// canonical and applies its traces
func (tc *testContext) appendBlock(sideChainInfo ...*externalapi.SideChainIndexedInfo) *externalapi.DomainBlock {
	chainState, err := tc.chainManager.ChainState()
	require.NoError(tc.t, err)
	height := chainState.CurrentHeight + 1

	block, traces := tc.buildBlock(height, sideChainInfo...)
	blockHash := ledgerhashing.BlockHash(block)
	require.NoError(tc.t, tc.chainManager.AddBlock(block))
	require.NoError(tc.t, tc.chainManager.AppendCanonicalBlock(blockHash))
	require.NoError(tc.t, tc.chainManager.ApplyBlockTraces(blockHash, traces))

	commitment, err := tc.stateManager.GetCommitment()
	require.NoError(tc.t, err)
	tc.blocks[height] = block
	tc.commitments[height] = commitment
	return block
}

func (tc *testContext) buildChain(length int) {
	for i := 0; i < length; i++ {
		tc.appendBlock()
	}
}

func (tc *testContext) requireHeight(height uint64) {
	chainState, err := tc.chainManager.ChainState()
	require.NoError(tc.t, err)
	require.Equal(tc.t, height, chainState.CurrentHeight)
	require.True(tc.t, ledgerhashing.BlockHash(tc.blocks[height]).Equal(chainState.CurrentBlockHash))

	commitment, err := tc.stateManager.GetCommitment()
	require.NoError(tc.t, err)
	require.True(tc.t, tc.commitments[height].Equal(commitment),
		"commitment %s differs from the one taken at height %d: %s", commitment, height, tc.commitments[height])
}

func drainEvents(events chan externalapi.ChainEvent) []externalapi.ChainEvent {
	var drained []externalapi.ChainEvent
	for {
		select {
		case event := <-events:
			drained = append(drained, event)
		default:
			return drained
		}
	}
}
