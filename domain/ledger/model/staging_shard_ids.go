package model

// Staging shard ids, one per store
const (
	StagingShardIDBlockHeader StagingShardID = iota
	StagingShardIDBlockBody
	StagingShardIDCanonicalChain
	StagingShardIDChainState
	StagingShardIDSideChainState
	StagingShardIDTransaction
	StagingShardIDTransactionResult
	StagingShardIDTransactionTrace
	StagingShardIDState
)
