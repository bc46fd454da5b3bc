package serialization

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

// DbBlockHeader is the stored form of a DomainBlockHeader
type DbBlockHeader struct {
	PreviousBlockHash            []byte
	MerkleTreeRootOfTransactions []byte
	MerkleTreeRootOfWorldState   []byte
	SideChainTransactionsRoot    []byte
	Height                       uint64
	TimeInMilliseconds           int64
	ChainID                      []byte
	ProducerPublicKey            []byte
}

// MarshalProto implements protoserialization.Message
func (m *DbBlockHeader) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Bytes(1, m.PreviousBlockHash)
	encoder.Bytes(2, m.MerkleTreeRootOfTransactions)
	encoder.Bytes(3, m.MerkleTreeRootOfWorldState)
	encoder.Bytes(4, m.SideChainTransactionsRoot)
	encoder.Uint64(5, m.Height)
	encoder.Int64(6, m.TimeInMilliseconds)
	encoder.Bytes(7, m.ChainID)
	encoder.Bytes(8, m.ProducerPublicKey)
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbBlockHeader) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		m.PreviousBlockHash, err = field.Bytes()
	case 2:
		m.MerkleTreeRootOfTransactions, err = field.Bytes()
	case 3:
		m.MerkleTreeRootOfWorldState, err = field.Bytes()
	case 4:
		m.SideChainTransactionsRoot, err = field.Bytes()
	case 5:
		m.Height, err = field.Uint64()
	case 6:
		m.TimeInMilliseconds, err = field.Int64()
	case 7:
		m.ChainID, err = field.Bytes()
	case 8:
		m.ProducerPublicKey, err = field.Bytes()
	}
	return err
}

// DomainBlockHeaderToDbBlockHeader converts DomainBlockHeader to DbBlockHeader
func DomainBlockHeaderToDbBlockHeader(header *externalapi.DomainBlockHeader) *DbBlockHeader {
	return &DbBlockHeader{
		PreviousBlockHash:            DomainHashToDbBytes(header.PreviousBlockHash),
		MerkleTreeRootOfTransactions: DomainHashToDbBytes(header.MerkleTreeRootOfTransactions),
		MerkleTreeRootOfWorldState:   DomainHashToDbBytes(header.MerkleTreeRootOfWorldState),
		SideChainTransactionsRoot:    DomainHashToDbBytes(header.SideChainTransactionsRoot),
		Height:                       header.Height,
		TimeInMilliseconds:           header.TimeInMilliseconds,
		ChainID:                      DomainChainIDToDbBytes(header.ChainID),
		ProducerPublicKey:            header.ProducerPublicKey,
	}
}

// DbBlockHeaderToDomainBlockHeader converts DbBlockHeader to DomainBlockHeader
func DbBlockHeaderToDomainBlockHeader(dbHeader *DbBlockHeader) (*externalapi.DomainBlockHeader, error) {
	previousBlockHash, err := DbBytesToDomainHash(dbHeader.PreviousBlockHash)
	if err != nil {
		return nil, err
	}
	merkleTreeRootOfTransactions, err := DbBytesToDomainHash(dbHeader.MerkleTreeRootOfTransactions)
	if err != nil {
		return nil, err
	}
	merkleTreeRootOfWorldState, err := DbBytesToDomainHash(dbHeader.MerkleTreeRootOfWorldState)
	if err != nil {
		return nil, err
	}
	sideChainTransactionsRoot, err := DbBytesToDomainHash(dbHeader.SideChainTransactionsRoot)
	if err != nil {
		return nil, err
	}
	chainID, err := DbBytesToDomainChainID(dbHeader.ChainID)
	if err != nil {
		return nil, err
	}
	return &externalapi.DomainBlockHeader{
		PreviousBlockHash:            previousBlockHash,
		MerkleTreeRootOfTransactions: merkleTreeRootOfTransactions,
		MerkleTreeRootOfWorldState:   merkleTreeRootOfWorldState,
		SideChainTransactionsRoot:    sideChainTransactionsRoot,
		Height:                       dbHeader.Height,
		TimeInMilliseconds:           dbHeader.TimeInMilliseconds,
		ChainID:                      chainID,
		ProducerPublicKey:            dbHeader.ProducerPublicKey,
	}, nil
}
