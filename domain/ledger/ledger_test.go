package ledger

import (
	"testing"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/ledgerhashing"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/merkle"
	"github.com/kaspanet/ledgerd/infrastructure/db/database/ldb"
	"github.com/stretchr/testify/require"
)

var counterPath = &externalapi.StatePath{ContractAddress: []byte("counter"), Key: []byte("value")}

// appendBlock appends a block with one transaction per entry of changes
func appendBlock(t *testing.T, l Ledger, previous *externalapi.DomainBlock,
	changes ...[]*externalapi.StateChange) *externalapi.DomainBlock {

	height := externalapi.GenesisBlockHeight
	var previousBlockHash *externalapi.DomainHash
	if previous != nil {
		height = previous.Header.Height + 1
		previousBlockHash = ledgerhashing.BlockHash(previous)
	}

	transactions := make([]*externalapi.DomainTransaction, len(changes))
	for i := range changes {
		transactions[i] = &externalapi.DomainTransaction{
			From: []byte("alice"), To: []byte("counter"), IncrementID: height*10 + uint64(i), MethodName: "set",
		}
	}
	transactionIDs := ledgerhashing.TransactionIDs(transactions)
	block := &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			PreviousBlockHash:            previousBlockHash,
			MerkleTreeRootOfTransactions: merkle.CalculateRoot(transactionIDs),
			MerkleTreeRootOfWorldState:   &externalapi.DomainHash{},
			Height:                       height,
			ChainID:                      l.ChainID(),
			ProducerPublicKey:            []byte("producer"),
		},
		Body: &externalapi.DomainBlockBody{
			TransactionHashes:    transactionIDs,
			IndexedSideChainInfo: []*externalapi.SideChainIndexedInfo{},
		},
		Transactions: transactions,
	}
	traces := make([]*externalapi.TransactionTrace, len(changes))
	for i, transactionChanges := range changes {
		traces[i] = &externalapi.TransactionTrace{
			TransactionID: transactionIDs[i],
			StateChanges:  transactionChanges,
		}
	}

	blockHash := ledgerhashing.BlockHash(block)
	require.NoError(t, l.AddBlock(block))
	require.NoError(t, l.AppendCanonicalBlock(blockHash))
	require.NoError(t, l.ApplyBlockTraces(blockHash, traces))
	return block
}

// appendCounterBlock appends a block with a single transaction that sets the
// counter to the block height
func appendCounterBlock(t *testing.T, l Ledger, previous *externalapi.DomainBlock) *externalapi.DomainBlock {
	return appendBlock(t, l, previous, []*externalapi.StateChange{counterChange(previous)})
}

func counterChange(previous *externalapi.DomainBlock) *externalapi.StateChange {
	if previous == nil {
		return &externalapi.StateChange{Path: counterPath, NewValue: []byte{byte(externalapi.GenesisBlockHeight)}}
	}
	return &externalapi.StateChange{
		Path:          counterPath,
		OriginalValue: []byte{byte(previous.Header.Height)},
		NewValue:      []byte{byte(previous.Header.Height + 1)},
	}
}

func requireCounter(t *testing.T, l Ledger, expected byte) {
	value, found, err := l.GetState(counterPath)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte{expected}, value)
}

func TestLedgersShareADatabase(t *testing.T) {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	require.NoError(t, err)
	defer db.Close()

	events := make(chan externalapi.ChainEvent, 10)
	chainA, err := NewFactory().NewLedger(&Config{ChainID: &externalapi.DomainChainID{0x0a}}, db, events)
	require.NoError(t, err)
	chainB, err := NewFactory().NewLedger(&Config{ChainID: &externalapi.DomainChainID{0x0b}}, db, nil)
	require.NoError(t, err)

	emptyCommitment, err := chainA.GetStateCommitment()
	require.NoError(t, err)

	genesis := appendCounterBlock(t, chainA, nil)
	genesisCommitment, err := chainA.GetStateCommitment()
	require.NoError(t, err)
	require.False(t, genesisCommitment.Equal(emptyCommitment))
	second := appendCounterBlock(t, chainA, genesis)
	requireCounter(t, chainA, 2)

	// chain B has its own blocks and world state
	appendCounterBlock(t, chainB, nil)
	requireCounter(t, chainB, 1)
	chainState, err := chainB.ChainState()
	require.NoError(t, err)
	require.Equal(t, externalapi.GenesisBlockHeight, chainState.CurrentHeight)

	// Traces are found under the disambiguation hash of their block
	disambiguationHash := ledgerhashing.HeaderDisambiguationHash(second.Header)
	transactionID := second.Body.TransactionHashes[0]
	trace, found, err := chainA.GetTransactionTrace(transactionID, disambiguationHash)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, transactionID, trace.TransactionID)
	require.Len(t, chainA.GetDisambiguatedKey(transactionID, disambiguationHash), 64)
	require.Equal(t, transactionID.String(), chainA.GetDisambiguatedKey(transactionID, nil))

	removed, err := chainA.RollbackToHeight(genesis.Header.Height)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	requireCounter(t, chainA, 1)
	commitment, err := chainA.GetStateCommitment()
	require.NoError(t, err)
	require.True(t, commitment.Equal(genesisCommitment))

	// Reverting the genesis transaction directly deletes the counter
	err = chainA.RollbackStateForTransactions(genesis.Body.TransactionHashes,
		ledgerhashing.HeaderDisambiguationHash(genesis.Header))
	require.NoError(t, err)
	_, found, err = chainA.GetState(counterPath)
	require.NoError(t, err)
	require.False(t, found)

	requireCounter(t, chainB, 1)
}

func TestNewLedgerRequiresChainID(t *testing.T) {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	require.NoError(t, err)
	defer db.Close()

	_, err = NewFactory().NewLedger(&Config{}, db, nil)
	require.Error(t, err)
}

func TestSideChainRecordsDoNotOverwriteCanonicalPointers(t *testing.T) {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	require.NoError(t, err)
	defer db.Close()

	chainA, err := NewFactory().NewLedger(&Config{ChainID: &externalapi.DomainChainID{0x0a}}, db, nil)
	require.NoError(t, err)
	chainB, err := NewFactory().NewLedger(&Config{ChainID: &externalapi.DomainChainID{0x0b}}, db, nil)
	require.NoError(t, err)

	genesisOfB := appendCounterBlock(t, chainB, nil)
	secondOfB := appendCounterBlock(t, chainB, genesisOfB)
	appendCounterBlock(t, chainA, nil)

	// chain A indexed chain B only up to its genesis
	require.NoError(t, chainA.SetSideChainHeight(chainB.ChainID(), externalapi.GenesisBlockHeight))

	chainState, err := chainB.ChainState()
	require.NoError(t, err)
	require.Equal(t, uint64(2), chainState.CurrentHeight)
	require.True(t, chainState.CurrentBlockHash.Equal(ledgerhashing.BlockHash(secondOfB)))

	sideChainState, found, err := chainA.SideChainState(chainB.ChainID())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, externalapi.GenesisBlockHeight, sideChainState.CurrentHeight)

	sideChainsOfA, err := chainA.SideChainStates()
	require.NoError(t, err)
	require.Len(t, sideChainsOfA, 1)
	sideChainsOfB, err := chainB.SideChainStates()
	require.NoError(t, err)
	require.Empty(t, sideChainsOfB)
	_, found, err = chainB.SideChainState(chainA.ChainID())
	require.NoError(t, err)
	require.False(t, found)

	// chain B still extends its own tip
	appendCounterBlock(t, chainB, secondOfB)
	requireCounter(t, chainB, 3)
}
