package hashes

import (
	"testing"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
)

func TestXor(t *testing.T) {
	var aBytes, bBytes [externalapi.DomainHashSize]byte
	for i := range aBytes {
		aBytes[i] = byte(i)
		bBytes[i] = 0xff
	}
	a := externalapi.NewDomainHashFromByteArray(&aBytes)
	b := externalapi.NewDomainHashFromByteArray(&bBytes)

	xored := Xor(a, b)
	for i, value := range xored.ByteSlice() {
		if value != byte(i)^0xff {
			t.Fatalf("TestXor: wrong byte at %d. Want: %x, got: %x", i, byte(i)^0xff, value)
		}
	}
	if !Xor(xored, b).Equal(a) {
		t.Fatalf("TestXor: xor is not its own inverse")
	}
	if !Xor(a, b).Equal(Xor(b, a)) {
		t.Fatalf("TestXor: xor is not commutative")
	}
}

func TestDomainSeparation(t *testing.T) {
	data := []byte("same data")

	headerWriter := NewBlockHeaderHashWriter()
	headerWriter.InfallibleWrite(data)
	transactionWriter := NewTransactionIDWriter()
	transactionWriter.InfallibleWrite(data)

	if headerWriter.Finalize().Equal(transactionWriter.Finalize()) {
		t.Fatalf("TestDomainSeparation: different domains produced the same hash")
	}
}
