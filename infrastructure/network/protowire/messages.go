package protowire

import (
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

// RequestIndexedInfo asks the parent chain for the header information at
// NextHeight
type RequestIndexedInfo struct {
	NextHeight uint64
}

// MarshalProto implements protoserialization.Message
func (x *RequestIndexedInfo) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Uint64(1, x.NextHeight)
}

// UnmarshalProtoField implements protoserialization.Message
func (x *RequestIndexedInfo) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		x.NextHeight, err = field.Uint64()
	}
	return err
}

// ResponseIndexedInfo answers a RequestIndexedInfo. Success is false, and
// every other field but Height is empty, if the parent chain has no
// canonical block at the requested height.
type ResponseIndexedInfo struct {
	Height                uint64
	BlockHeaderHash       *Hash
	TransactionMerkleRoot *Hash
	ChainID               []byte
	Success               bool
}

// MarshalProto implements protoserialization.Message
func (x *ResponseIndexedInfo) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Uint64(1, x.Height)
	if x.BlockHeaderHash != nil {
		encoder.Message(2, x.BlockHeaderHash)
	}
	if x.TransactionMerkleRoot != nil {
		encoder.Message(3, x.TransactionMerkleRoot)
	}
	encoder.Bytes(4, x.ChainID)
	encoder.Bool(5, x.Success)
}

// UnmarshalProtoField implements protoserialization.Message
func (x *ResponseIndexedInfo) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		x.Height, err = field.Uint64()
	case 2:
		x.BlockHeaderHash = &Hash{}
		err = field.Message(x.BlockHeaderHash)
	case 3:
		x.TransactionMerkleRoot = &Hash{}
		err = field.Message(x.TransactionMerkleRoot)
	case 4:
		x.ChainID, err = field.Bytes()
	case 5:
		x.Success, err = field.Bool()
	}
	return err
}

// Hash is the wire form of a DomainHash
type Hash struct {
	Bytes []byte
}

// MarshalProto implements protoserialization.Message
func (x *Hash) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Bytes(1, x.Bytes)
}

// UnmarshalProtoField implements protoserialization.Message
func (x *Hash) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		x.Bytes, err = field.Bytes()
	}
	return err
}
