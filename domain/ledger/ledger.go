package ledger

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
)

// Ledger maintains the canonical chain of a single chain along with its
// world state and the traces needed to revert it. Every call that reads or
// writes the database goes through the chain manager, so it is serialized
// with block rollbacks.
type Ledger interface {
	model.ChainManager

	ChainID() *externalapi.DomainChainID
	GetDisambiguatedKey(transactionID *externalapi.DomainHash, disambiguationHash *externalapi.DomainHash) string
}

type ledger struct {
	model.ChainManager

	chainID      *externalapi.DomainChainID
	traceManager model.TraceManager
}

func (l *ledger) ChainID() *externalapi.DomainChainID {
	return l.chainID
}

func (l *ledger) GetDisambiguatedKey(transactionID *externalapi.DomainHash,
	disambiguationHash *externalapi.DomainHash) string {

	return l.traceManager.GetDisambiguatedKey(transactionID, disambiguationHash)
}
