package model

import "github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"

// Multiset is an order independent set commitment over byte strings
type Multiset interface {
	Add(data []byte)
	Remove(data []byte)
	Hash() *externalapi.DomainHash
	Serialize() []byte
	Clone() Multiset
}
