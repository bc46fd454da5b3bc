package ledgerhashing

import (
	"testing"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
)

func TestHeaderHashCoversEveryField(t *testing.T) {
	chainID := externalapi.DomainChainID{1, 2, 3, 4}
	baseHeader := func() *externalapi.DomainBlockHeader {
		return &externalapi.DomainBlockHeader{
			PreviousBlockHash:            externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{1}),
			MerkleTreeRootOfTransactions: externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{2}),
			MerkleTreeRootOfWorldState:   externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{3}),
			Height:                       5,
			TimeInMilliseconds:           1000,
			ChainID:                      &chainID,
			ProducerPublicKey:            []byte("producer"),
		}
	}
	baseHash := HeaderHash(baseHeader())
	if !baseHash.Equal(HeaderHash(baseHeader())) {
		t.Fatalf("HeaderHash is not deterministic")
	}

	tests := []struct {
		name   string
		mutate func(header *externalapi.DomainBlockHeader)
	}{
		{"previous hash", func(h *externalapi.DomainBlockHeader) { h.PreviousBlockHash = nil }},
		{"tx root", func(h *externalapi.DomainBlockHeader) {
			h.MerkleTreeRootOfTransactions = externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{9})
		}},
		{"side chain root", func(h *externalapi.DomainBlockHeader) {
			h.SideChainTransactionsRoot = externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{})
		}},
		{"height", func(h *externalapi.DomainBlockHeader) { h.Height++ }},
		{"time", func(h *externalapi.DomainBlockHeader) { h.TimeInMilliseconds++ }},
		{"chain id", func(h *externalapi.DomainBlockHeader) { h.ChainID = &externalapi.DomainChainID{4, 3, 2, 1} }},
		{"producer", func(h *externalapi.DomainBlockHeader) { h.ProducerPublicKey = []byte("other") }},
	}
	for _, test := range tests {
		header := baseHeader()
		test.mutate(header)
		if HeaderHash(header).Equal(baseHash) {
			t.Errorf("%s: changing the field did not change the header hash", test.name)
		}
	}
}

func TestTransactionIDIgnoresSignature(t *testing.T) {
	tx := &externalapi.DomainTransaction{
		From:        []byte("from"),
		To:          []byte("to"),
		IncrementID: 7,
		MethodName:  "Transfer",
		Params:      []byte{1, 2, 3},
	}
	signed := tx.Clone()
	signed.Signature = []byte("signature")
	if !TransactionID(tx).Equal(TransactionID(signed)) {
		t.Fatalf("the signature changed the transaction id")
	}

	other := tx.Clone()
	other.IncrementID++
	if TransactionID(tx).Equal(TransactionID(other)) {
		t.Fatalf("different transactions have the same id")
	}
}

func TestDisambiguationHash(t *testing.T) {
	producerA := ProducerKeyHash([]byte("producer a"))
	producerB := ProducerKeyHash([]byte("producer b"))

	if !DisambiguationHash(10, producerA).Equal(DisambiguationHash(10, producerA)) {
		t.Fatalf("DisambiguationHash is not deterministic")
	}
	if DisambiguationHash(10, producerA).Equal(DisambiguationHash(11, producerA)) {
		t.Fatalf("different heights produced the same disambiguation hash")
	}
	if DisambiguationHash(10, producerA).Equal(DisambiguationHash(10, producerB)) {
		t.Fatalf("different producers produced the same disambiguation hash")
	}
}
