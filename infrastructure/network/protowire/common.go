package protowire

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/ledgerhashing"
	"github.com/pkg/errors"
)

func (x *Hash) toDomain() (*externalapi.DomainHash, error) {
	if x == nil {
		return nil, errors.New("hash is missing")
	}
	return externalapi.NewDomainHashFromByteSlice(x.Bytes)
}

func domainHashToProto(hash *externalapi.DomainHash) *Hash {
	return &Hash{
		Bytes: hash.ByteSlice(),
	}
}

// NewResponseIndexedInfo builds the response for height out of the
// canonical header at that height. A nil header builds an unsuccessful
// response.
func NewResponseIndexedInfo(height uint64, header *externalapi.DomainBlockHeader) *ResponseIndexedInfo {
	if header == nil {
		return &ResponseIndexedInfo{Height: height}
	}
	response := &ResponseIndexedInfo{
		Height:          height,
		BlockHeaderHash: domainHashToProto(ledgerhashing.HeaderHash(header)),
		Success:         true,
	}
	if header.MerkleTreeRootOfTransactions != nil {
		response.TransactionMerkleRoot = domainHashToProto(header.MerkleTreeRootOfTransactions)
	}
	if header.ChainID != nil {
		response.ChainID = header.ChainID.ByteSlice()
	}
	return response
}

// ToDomain converts a successful response to an IndexedInfo
func (x *ResponseIndexedInfo) ToDomain() (*externalapi.IndexedInfo, error) {
	if !x.Success {
		return nil, errors.Errorf("no indexed info at height %d", x.Height)
	}
	blockHeaderHash, err := x.BlockHeaderHash.toDomain()
	if err != nil {
		return nil, errors.Wrapf(err, "malformed block header hash at height %d", x.Height)
	}
	transactionMerkleRoot, err := x.TransactionMerkleRoot.toDomain()
	if err != nil {
		return nil, errors.Wrapf(err, "malformed transaction merkle root at height %d", x.Height)
	}
	chainID, err := externalapi.NewDomainChainIDFromByteSlice(x.ChainID)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed chain id at height %d", x.Height)
	}
	return &externalapi.IndexedInfo{
		Height:                x.Height,
		BlockHeaderHash:       blockHeaderHash,
		TransactionMerkleRoot: transactionMerkleRoot,
		ChainID:               chainID,
	}, nil
}
