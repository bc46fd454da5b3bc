package hashes

import (
	"hash"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	blockHeaderDomain    = "BlockHeaderHash"
	transactionIDDomain  = "TransactionID"
	merkleBranchDomain   = "MerkleBranchHash"
	producerKeyDomain    = "ProducerKeyHash"
	disambiguationDomain = "DisambiguationHash"
)

// HashWriter is used to incrementally hash data without concatenating all of the data to a single buffer
// it exposes an io.Writer api and a Finalize function to get the resulting hash.
// The used hash function is blake2b.
// This can only be created via one of the domain separated constructors
type HashWriter struct {
	hash.Hash
}

// InfallibleWrite is just like write but doesn't return anything
func (h HashWriter) InfallibleWrite(p []byte) {
	// This write can never return an error, this is part of the hash.Hash interface contract.
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors."))
	}
}

// Finalize returns the resulting hash
func (h HashWriter) Finalize() *externalapi.DomainHash {
	var sum [externalapi.DomainHashSize]byte
	// This should prevent `Sum` for allocating an output buffer, by using the DomainHash buffer. we still copy because we don't want to rely on that.
	copy(sum[:], h.Sum(sum[:0]))
	return externalapi.NewDomainHashFromByteArray(&sum)
}

func newHashWriter(domain string) HashWriter {
	blake, err := blake2b.New256([]byte(domain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", domain))
	}
	return HashWriter{blake}
}

// NewBlockHeaderHashWriter returns a new HashWriter used for block header hashes
func NewBlockHeaderHashWriter() HashWriter {
	return newHashWriter(blockHeaderDomain)
}

// NewTransactionIDWriter returns a new HashWriter used for transaction ids
func NewTransactionIDWriter() HashWriter {
	return newHashWriter(transactionIDDomain)
}

// NewMerkleBranchHashWriter returns a new HashWriter used for a merkle tree branch
func NewMerkleBranchHashWriter() HashWriter {
	return newHashWriter(merkleBranchDomain)
}

// NewProducerKeyHashWriter returns a new HashWriter used to hash block producer public keys
func NewProducerKeyHashWriter() HashWriter {
	return newHashWriter(producerKeyDomain)
}

// NewDisambiguationHashWriter returns a new HashWriter used for trace disambiguation hashes
func NewDisambiguationHashWriter() HashWriter {
	return newHashWriter(disambiguationDomain)
}
