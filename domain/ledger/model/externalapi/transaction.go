package externalapi

// DomainTransaction represents a transaction submitted to the chain.
// Its identity is ledgerhashing.TransactionHash.
type DomainTransaction struct {
	From        []byte
	To          []byte
	IncrementID uint64
	MethodName  string
	Params      []byte
	Signature   []byte
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	if tx == nil {
		return nil
	}
	return &DomainTransaction{
		From:        cloneBytes(tx.From),
		To:          cloneBytes(tx.To),
		IncrementID: tx.IncrementID,
		MethodName:  tx.MethodName,
		Params:      cloneBytes(tx.Params),
		Signature:   cloneBytes(tx.Signature),
	}
}

// TransactionStatus is the execution status of a transaction
type TransactionStatus uint32

// TransactionStatus values
const (
	TransactionStatusNotExisted TransactionStatus = iota
	TransactionStatusPending
	TransactionStatusFailed
	TransactionStatusMined
)

var transactionStatusStrings = map[TransactionStatus]string{
	TransactionStatusNotExisted: "NotExisted",
	TransactionStatusPending:    "Pending",
	TransactionStatusFailed:     "Failed",
	TransactionStatusMined:      "Mined",
}

func (status TransactionStatus) String() string {
	if s, ok := transactionStatusStrings[status]; ok {
		return s
	}
	return "Unknown"
}

// TransactionResult is the outcome of executing a transaction.
// Index is the position of the transaction inside its block.
type TransactionResult struct {
	TransactionID *DomainHash
	Status        TransactionStatus
	BlockHeight   uint64
	BlockHash     *DomainHash
	Index         uint32
	ReturnValue   []byte
}

// Clone returns a clone of TransactionResult
func (result *TransactionResult) Clone() *TransactionResult {
	return &TransactionResult{
		TransactionID: result.TransactionID,
		Status:        result.Status,
		BlockHeight:   result.BlockHeight,
		BlockHash:     result.BlockHash,
		Index:         result.Index,
		ReturnValue:   cloneBytes(result.ReturnValue),
	}
}

// MerklePathNode is one sibling on the way from a leaf to the merkle root
type MerklePathNode struct {
	Hash            *DomainHash
	IsLeftChildNode bool
}

// MerklePath proves that a transaction is included in a block
type MerklePath struct {
	BlockHash   *DomainHash
	BlockHeight uint64
	Nodes       []*MerklePathNode
}
