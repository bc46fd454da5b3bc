package externalapi

// IndexedInfo is the header information a side chain learns about a block
// of its parent chain
type IndexedInfo struct {
	Height                uint64
	BlockHeaderHash       *DomainHash
	TransactionMerkleRoot *DomainHash
	ChainID               *DomainChainID
}
