package hashes

import "github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"

// Xor returns the byte-wise XOR of a and b
func Xor(a, b *externalapi.DomainHash) *externalapi.DomainHash {
	aArray := a.ByteArray()
	bArray := b.ByteArray()
	var result [externalapi.DomainHashSize]byte
	for i := range result {
		result[i] = aArray[i] ^ bArray[i]
	}
	return externalapi.NewDomainHashFromByteArray(&result)
}
