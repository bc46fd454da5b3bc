package serialization

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

// DbTransaction is the stored form of a DomainTransaction
type DbTransaction struct {
	From        []byte
	To          []byte
	IncrementID uint64
	MethodName  string
	Params      []byte
	Signature   []byte
}

// MarshalProto implements protoserialization.Message
func (m *DbTransaction) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Bytes(1, m.From)
	encoder.Bytes(2, m.To)
	encoder.Uint64(3, m.IncrementID)
	encoder.String(4, m.MethodName)
	encoder.Bytes(5, m.Params)
	encoder.Bytes(6, m.Signature)
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbTransaction) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		m.From, err = field.Bytes()
	case 2:
		m.To, err = field.Bytes()
	case 3:
		m.IncrementID, err = field.Uint64()
	case 4:
		m.MethodName, err = field.String()
	case 5:
		m.Params, err = field.Bytes()
	case 6:
		m.Signature, err = field.Bytes()
	}
	return err
}

// DomainTransactionToDbTransaction converts DomainTransaction to DbTransaction
func DomainTransactionToDbTransaction(tx *externalapi.DomainTransaction) *DbTransaction {
	return &DbTransaction{
		From:        tx.From,
		To:          tx.To,
		IncrementID: tx.IncrementID,
		MethodName:  tx.MethodName,
		Params:      tx.Params,
		Signature:   tx.Signature,
	}
}

// DbTransactionToDomainTransaction converts DbTransaction to DomainTransaction
func DbTransactionToDomainTransaction(dbTx *DbTransaction) *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		From:        dbTx.From,
		To:          dbTx.To,
		IncrementID: dbTx.IncrementID,
		MethodName:  dbTx.MethodName,
		Params:      dbTx.Params,
		Signature:   dbTx.Signature,
	}
}

// DbTransactionResult is the stored form of a TransactionResult
type DbTransactionResult struct {
	TransactionID []byte
	Status        uint32
	BlockHeight   uint64
	BlockHash     []byte
	Index         uint32
	ReturnValue   []byte
}

// MarshalProto implements protoserialization.Message
func (m *DbTransactionResult) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Bytes(1, m.TransactionID)
	encoder.Uint32(2, m.Status)
	encoder.Uint64(3, m.BlockHeight)
	encoder.Bytes(4, m.BlockHash)
	encoder.Uint32(5, m.Index)
	encoder.Bytes(6, m.ReturnValue)
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbTransactionResult) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		m.TransactionID, err = field.Bytes()
	case 2:
		m.Status, err = field.Uint32()
	case 3:
		m.BlockHeight, err = field.Uint64()
	case 4:
		m.BlockHash, err = field.Bytes()
	case 5:
		m.Index, err = field.Uint32()
	case 6:
		m.ReturnValue, err = field.Bytes()
	}
	return err
}

// TransactionResultToDbTransactionResult converts TransactionResult to DbTransactionResult
func TransactionResultToDbTransactionResult(result *externalapi.TransactionResult) *DbTransactionResult {
	return &DbTransactionResult{
		TransactionID: DomainHashToDbBytes(result.TransactionID),
		Status:        uint32(result.Status),
		BlockHeight:   result.BlockHeight,
		BlockHash:     DomainHashToDbBytes(result.BlockHash),
		Index:         result.Index,
		ReturnValue:   result.ReturnValue,
	}
}

// DbTransactionResultToTransactionResult converts DbTransactionResult to TransactionResult
func DbTransactionResultToTransactionResult(dbResult *DbTransactionResult) (*externalapi.TransactionResult, error) {
	transactionID, err := externalapi.NewDomainHashFromByteSlice(dbResult.TransactionID)
	if err != nil {
		return nil, err
	}
	blockHash, err := DbBytesToDomainHash(dbResult.BlockHash)
	if err != nil {
		return nil, err
	}
	return &externalapi.TransactionResult{
		TransactionID: transactionID,
		Status:        externalapi.TransactionStatus(dbResult.Status),
		BlockHeight:   dbResult.BlockHeight,
		BlockHash:     blockHash,
		Index:         dbResult.Index,
		ReturnValue:   dbResult.ReturnValue,
	}, nil
}
