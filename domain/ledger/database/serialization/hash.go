package serialization

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

// DomainHashToDbBytes converts an optional DomainHash to its stored bytes
func DomainHashToDbBytes(domainHash *externalapi.DomainHash) []byte {
	if domainHash == nil {
		return nil
	}
	return domainHash.ByteSlice()
}

// DbBytesToDomainHash converts stored bytes to an optional DomainHash
func DbBytesToDomainHash(hashBytes []byte) (*externalapi.DomainHash, error) {
	if len(hashBytes) == 0 {
		return nil, nil
	}
	return externalapi.NewDomainHashFromByteSlice(hashBytes)
}

// DomainChainIDToDbBytes converts an optional DomainChainID to its stored bytes
func DomainChainIDToDbBytes(chainID *externalapi.DomainChainID) []byte {
	if chainID == nil {
		return nil
	}
	return chainID.ByteSlice()
}

// DbBytesToDomainChainID converts stored bytes to an optional DomainChainID
func DbBytesToDomainChainID(chainIDBytes []byte) (*externalapi.DomainChainID, error) {
	if len(chainIDBytes) == 0 {
		return nil, nil
	}
	return externalapi.NewDomainChainIDFromByteSlice(chainIDBytes)
}

// DbHash is the stored form of a single hash
type DbHash struct {
	Hash []byte
}

// MarshalProto implements protoserialization.Message
func (m *DbHash) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Bytes(1, m.Hash)
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbHash) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	if field.Number == 1 {
		m.Hash, err = field.Bytes()
	}
	return err
}

// DomainHashToDbHash converts a DomainHash to a DbHash
func DomainHashToDbHash(domainHash *externalapi.DomainHash) *DbHash {
	return &DbHash{Hash: DomainHashToDbBytes(domainHash)}
}

// DbHashToDomainHash converts a DbHash to a DomainHash
func DbHashToDomainHash(dbHash *DbHash) (*externalapi.DomainHash, error) {
	return externalapi.NewDomainHashFromByteSlice(dbHash.Hash)
}
