package externalapi

// DomainBlockHeader represents the header part of a block
type DomainBlockHeader struct {
	PreviousBlockHash            *DomainHash
	MerkleTreeRootOfTransactions *DomainHash
	MerkleTreeRootOfWorldState   *DomainHash
	SideChainTransactionsRoot    *DomainHash
	Height                       uint64
	TimeInMilliseconds           int64
	ChainID                      *DomainChainID
	ProducerPublicKey            []byte
}

// Clone returns a clone of DomainBlockHeader
func (header *DomainBlockHeader) Clone() *DomainBlockHeader {
	if header == nil {
		return nil
	}
	var chainIDClone *DomainChainID
	if header.ChainID != nil {
		chainID := *header.ChainID
		chainIDClone = &chainID
	}
	return &DomainBlockHeader{
		PreviousBlockHash:            header.PreviousBlockHash,
		MerkleTreeRootOfTransactions: header.MerkleTreeRootOfTransactions,
		MerkleTreeRootOfWorldState:   header.MerkleTreeRootOfWorldState,
		SideChainTransactionsRoot:    header.SideChainTransactionsRoot,
		Height:                       header.Height,
		TimeInMilliseconds:           header.TimeInMilliseconds,
		ChainID:                      chainIDClone,
		ProducerPublicKey:            cloneBytes(header.ProducerPublicKey),
	}
}

// SideChainIndexedInfo records the height up to which a side chain has been
// indexed by a parent chain block.
type SideChainIndexedInfo struct {
	ChainID *DomainChainID
	Height  uint64
}

// DomainBlockBody represents the body part of a block
type DomainBlockBody struct {
	TransactionHashes    []*DomainHash
	IndexedSideChainInfo []*SideChainIndexedInfo
}

// Clone returns a clone of DomainBlockBody
func (body *DomainBlockBody) Clone() *DomainBlockBody {
	if body == nil {
		return nil
	}
	sideChainInfoClone := make([]*SideChainIndexedInfo, len(body.IndexedSideChainInfo))
	for i, info := range body.IndexedSideChainInfo {
		chainID := *info.ChainID
		sideChainInfoClone[i] = &SideChainIndexedInfo{ChainID: &chainID, Height: info.Height}
	}
	return &DomainBlockBody{
		TransactionHashes:    CloneHashes(body.TransactionHashes),
		IndexedSideChainInfo: sideChainInfoClone,
	}
}

// DomainBlock represents a block. Transactions is populated only
// when the block was requested with its transactions.
type DomainBlock struct {
	Header       *DomainBlockHeader
	Body         *DomainBlockBody
	Transactions []*DomainTransaction
}

// Clone returns a clone of DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	var transactionsClone []*DomainTransaction
	if block.Transactions != nil {
		transactionsClone = make([]*DomainTransaction, len(block.Transactions))
		for i, tx := range block.Transactions {
			transactionsClone[i] = tx.Clone()
		}
	}
	return &DomainBlock{
		Header:       block.Header.Clone(),
		Body:         block.Body.Clone(),
		Transactions: transactionsClone,
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	clone := make([]byte, len(b))
	copy(clone, b)
	return clone
}
