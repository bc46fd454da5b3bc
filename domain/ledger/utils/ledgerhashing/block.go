package ledgerhashing

import (
	"io"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/hashes"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/serialization"
	"github.com/pkg/errors"
)

// BlockHash returns the given block's hash
func BlockHash(block *externalapi.DomainBlock) *externalapi.DomainHash {
	return HeaderHash(block.Header)
}

// HeaderHash returns the given header's hash
func HeaderHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	writer := hashes.NewBlockHeaderHashWriter()
	err := serializeHeader(writer, header)
	if err != nil {
		// It seems like this could only happen if the writer returned an error.
		// and this writer should never return an error (no allocations or possible failures)
		// the only non-writer error path here is unknown types in `WriteElement`
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}

	return writer.Finalize()
}

func serializeHeader(w io.Writer, header *externalapi.DomainBlockHeader) error {
	return serialization.WriteElements(w,
		header.PreviousBlockHash,
		header.MerkleTreeRootOfTransactions,
		header.MerkleTreeRootOfWorldState,
		header.SideChainTransactionsRoot,
		header.Height,
		header.TimeInMilliseconds,
		header.ChainID,
		header.ProducerPublicKey)
}

// ProducerKeyHash returns the hash of a block producer's public key
func ProducerKeyHash(producerPublicKey []byte) *externalapi.DomainHash {
	writer := hashes.NewProducerKeyHashWriter()
	writer.InfallibleWrite(producerPublicKey)
	return writer.Finalize()
}

// DisambiguationHash returns the hash that separates the traces of the same
// transaction executed in blocks of competing branches. It combines the block
// height with the hash of the block producer's public key.
func DisambiguationHash(height uint64, producerKeyHash *externalapi.DomainHash) *externalapi.DomainHash {
	writer := hashes.NewDisambiguationHashWriter()
	err := serialization.WriteElements(writer, height, producerKeyHash)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}
	return writer.Finalize()
}

// HeaderDisambiguationHash returns the disambiguation hash of the block with the given header
func HeaderDisambiguationHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	return DisambiguationHash(header.Height, ProducerKeyHash(header.ProducerPublicKey))
}
