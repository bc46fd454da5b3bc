package ledgerhashing

import (
	"io"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/hashes"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/serialization"
	"github.com/pkg/errors"
)

// TransactionID returns the id of the given transaction. The signature is
// not part of the id.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainHash {
	writer := hashes.NewTransactionIDWriter()
	err := serializeTransaction(writer, tx)
	if err != nil {
		panic(errors.Wrap(err, "TransactionID() failed. this should never fail for structurally-valid transactions"))
	}
	return writer.Finalize()
}

// TransactionIDs returns the ids of the given transactions
func TransactionIDs(txs []*externalapi.DomainTransaction) []*externalapi.DomainHash {
	ids := make([]*externalapi.DomainHash, len(txs))
	for i, tx := range txs {
		ids[i] = TransactionID(tx)
	}
	return ids
}

func serializeTransaction(w io.Writer, tx *externalapi.DomainTransaction) error {
	return serialization.WriteElements(w, tx.From, tx.To, tx.IncrementID, tx.MethodName, tx.Params)
}
