package chainmanager

import (
	"testing"

	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/ledgerhashing"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/merkle"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAppendCanonicalBlockValidation(t *testing.T) {
	tc := prepareForTest(t, nil)

	block, _ := tc.buildBlock(2)
	blockHash := ledgerhashing.BlockHash(block)

	err := tc.chainManager.AppendCanonicalBlock(blockHash)
	require.True(t, errors.Is(err, model.ErrInvalidState), "appending a block that is not stored: %+v", err)

	require.NoError(t, tc.chainManager.AddBlock(block))
	err = tc.chainManager.AppendCanonicalBlock(blockHash)
	require.True(t, errors.Is(err, model.ErrInvalidState), "appending a non genesis block to an empty chain: %+v", err)

	tc.buildChain(3)

	tooHigh, _ := tc.buildBlock(5)
	require.NoError(t, tc.chainManager.AddBlock(tooHigh))
	err = tc.chainManager.AppendCanonicalBlock(ledgerhashing.BlockHash(tooHigh))
	require.True(t, errors.Is(err, model.ErrInvalidState), "appending a block above the next height: %+v", err)

	wrongParent, _ := tc.buildBlock(4)
	wrongParent.Header.PreviousBlockHash = ledgerhashing.BlockHash(tc.blocks[2])
	require.NoError(t, tc.chainManager.AddBlock(wrongParent))
	err = tc.chainManager.AppendCanonicalBlock(ledgerhashing.BlockHash(wrongParent))
	require.True(t, errors.Is(err, model.ErrInvalidState), "appending a block that does not extend the tip: %+v", err)

	tc.requireHeight(3)
}

func TestAddBlockValidatesTransactions(t *testing.T) {
	tc := prepareForTest(t, nil)

	block, _ := tc.buildBlock(1)
	block.Transactions = block.Transactions[:1]
	require.Error(t, tc.chainManager.AddBlock(block))

	block, _ = tc.buildBlock(1)
	block.Transactions[0], block.Transactions[1] = block.Transactions[1], block.Transactions[0]
	require.Error(t, tc.chainManager.AddBlock(block))

	_, found, err := tc.chainManager.GetBlockByHash(ledgerhashing.BlockHash(block), false)
	require.NoError(t, err)
	require.False(t, found)
}

func TestBlockReads(t *testing.T) {
	tc := prepareForTest(t, nil)
	tc.buildChain(3)

	for height := uint64(1); height <= 3; height++ {
		expected := tc.blocks[height]
		expectedHash := ledgerhashing.BlockHash(expected)

		blockHash, found, err := tc.chainManager.GetCanonicalHash(height)
		require.NoError(t, err)
		require.True(t, found)
		require.True(t, expectedHash.Equal(blockHash))

		header, found, err := tc.chainManager.GetHeaderByHeight(height)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, expected.Header, header)

		header, found, err = tc.chainManager.GetHeaderByHash(expectedHash)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, expected.Header, header)

		block, found, err := tc.chainManager.GetBlockByHash(expectedHash, false)
		require.NoError(t, err)
		require.True(t, found)
		require.Nil(t, block.Transactions)
		require.Equal(t, expected.Body, block.Body)
	}

	_, found, err := tc.chainManager.GetHeaderByHeight(4)
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = tc.chainManager.GetBlockByHash(&externalapi.DomainHash{}, true)
	require.NoError(t, err)
	require.False(t, found)
}

func TestSideChainHeights(t *testing.T) {
	tc := prepareForTest(t, nil)
	sideChainA := &externalapi.DomainChainID{1, 1, 1, 1}
	sideChainB := &externalapi.DomainChainID{2, 2, 2, 2}

	tc.buildChain(7)
	tc.appendBlock(&externalapi.SideChainIndexedInfo{ChainID: sideChainA, Height: 5})
	tc.appendBlock(&externalapi.SideChainIndexedInfo{ChainID: sideChainA, Height: 6})
	tc.appendBlock(&externalapi.SideChainIndexedInfo{ChainID: sideChainB, Height: externalapi.GenesisBlockHeight})

	requireSideChainHeight := func(chainID *externalapi.DomainChainID, height uint64) {
		chainState, found, err := tc.chainManager.SideChainState(chainID)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, height, chainState.CurrentHeight, "side chain %s", chainID)
	}
	requireSideChainHeight(sideChainA, 6)
	requireSideChainHeight(sideChainB, externalapi.GenesisBlockHeight)

	_, err := tc.chainManager.RollbackToHeight(7)
	require.NoError(t, err)

	// The lowest removed block that indexed a side chain decides its height
	requireSideChainHeight(sideChainA, 4)
	requireSideChainHeight(sideChainB, 0)

	require.NoError(t, tc.chainManager.SetSideChainHeight(sideChainA, 9))
	requireSideChainHeight(sideChainA, 9)

	err = tc.chainManager.SetSideChainHeight(testChainID, 3)
	require.True(t, errors.Is(err, model.ErrInvalidState), "setting the height of the managed chain: %+v", err)
	tc.requireHeight(7)

	_, found, err := tc.chainManager.SideChainState(&externalapi.DomainChainID{3, 3, 3, 3})
	require.NoError(t, err)
	require.False(t, found)

	// The managed chain's own pointer is not a side chain
	sideChainStates, err := tc.chainManager.SideChainStates()
	require.NoError(t, err)
	require.Len(t, sideChainStates, 2)
	require.Equal(t, uint64(9), sideChainStates[*sideChainA].CurrentHeight)
	require.Equal(t, uint64(0), sideChainStates[*sideChainB].CurrentHeight)
}

func TestTransactionMerklePath(t *testing.T) {
	tc := prepareForTest(t, nil)
	tc.buildChain(5)

	block := tc.blocks[4]
	blockHash := ledgerhashing.BlockHash(block)
	minedID := block.Body.TransactionHashes[1]
	pendingID := block.Body.TransactionHashes[0]

	require.NoError(t, tc.chainManager.AddTransactionResults([]*externalapi.TransactionResult{
		{TransactionID: minedID, Status: externalapi.TransactionStatusMined, BlockHeight: 4,
			BlockHash: blockHash, Index: 1, ReturnValue: []byte("ok")},
		{TransactionID: pendingID, Status: externalapi.TransactionStatusPending},
	}))

	result, found, err := tc.chainManager.GetTransactionResult(minedID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, externalapi.TransactionStatusMined, result.Status)
	require.Equal(t, []byte("ok"), result.ReturnValue)

	merklePath, found, err := tc.chainManager.TransactionMerklePath(minedID)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, blockHash.Equal(merklePath.BlockHash))
	require.Equal(t, uint64(4), merklePath.BlockHeight)
	require.True(t, merkle.VerifyPath(minedID, merklePath.Nodes, block.Header.MerkleTreeRootOfTransactions))
	require.False(t, merkle.VerifyPath(pendingID, merklePath.Nodes, block.Header.MerkleTreeRootOfTransactions))

	_, _, err = tc.chainManager.TransactionMerklePath(pendingID)
	require.True(t, errors.Is(err, model.ErrTransactionNotMined), "unexpected error: %+v", err)

	_, found, err = tc.chainManager.TransactionMerklePath(&externalapi.DomainHash{})
	require.NoError(t, err)
	require.False(t, found)
}
