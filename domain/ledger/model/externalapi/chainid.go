package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// DomainChainIDSize is the size of a chain id in bytes.
const DomainChainIDSize = 4

// DomainChainID identifies a chain. Every chain-scoped keyspace is
// bucketed under it.
type DomainChainID [DomainChainIDSize]byte

// NewDomainChainIDFromByteSlice constructs a DomainChainID out of a byte slice.
func NewDomainChainIDFromByteSlice(chainIDBytes []byte) (*DomainChainID, error) {
	if len(chainIDBytes) != DomainChainIDSize {
		return nil, errors.Errorf("invalid chain id size. Want: %d, got: %d",
			DomainChainIDSize, len(chainIDBytes))
	}
	var chainID DomainChainID
	copy(chainID[:], chainIDBytes)
	return &chainID, nil
}

// NewDomainChainIDFromString constructs a DomainChainID out of its hex representation.
func NewDomainChainIDFromString(chainIDString string) (*DomainChainID, error) {
	if len(chainIDString) != DomainChainIDSize*2 {
		return nil, errors.Errorf("chain id string length is %d, while it should be %d",
			len(chainIDString), DomainChainIDSize*2)
	}
	chainIDBytes, err := hex.DecodeString(chainIDString)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed chain id %s", chainIDString)
	}
	return NewDomainChainIDFromByteSlice(chainIDBytes)
}

// String returns the chain id as a hex string
func (id DomainChainID) String() string {
	return hex.EncodeToString(id[:])
}

// Equal returns whether id equals to other
func (id *DomainChainID) Equal(other *DomainChainID) bool {
	if id == nil || other == nil {
		return id == other
	}
	return *id == *other
}

// ByteSlice returns a copy of the chain id bytes
func (id *DomainChainID) ByteSlice() []byte {
	clone := *id
	return clone[:]
}
