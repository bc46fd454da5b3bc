package serialization

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

// DbStatePath is the stored form of a StatePath
type DbStatePath struct {
	ContractAddress []byte
	Key             []byte
}

// MarshalProto implements protoserialization.Message
func (m *DbStatePath) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Bytes(1, m.ContractAddress)
	encoder.Bytes(2, m.Key)
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbStatePath) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		m.ContractAddress, err = field.Bytes()
	case 2:
		m.Key, err = field.Bytes()
	}
	return err
}

// DbStateChange is the stored form of a StateChange
type DbStateChange struct {
	Path          *DbStatePath
	OriginalValue []byte
	NewValue      []byte
}

// MarshalProto implements protoserialization.Message
func (m *DbStateChange) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Message(1, m.Path)
	encoder.Bytes(2, m.OriginalValue)
	encoder.Bytes(3, m.NewValue)
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbStateChange) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		m.Path = &DbStatePath{}
		err = field.Message(m.Path)
	case 2:
		m.OriginalValue, err = field.Bytes()
	case 3:
		m.NewValue, err = field.Bytes()
	}
	return err
}

// DbTransactionTrace is the stored form of a TransactionTrace
type DbTransactionTrace struct {
	TransactionID []byte
	StateChanges  []*DbStateChange
}

// MarshalProto implements protoserialization.Message
func (m *DbTransactionTrace) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Bytes(1, m.TransactionID)
	for _, change := range m.StateChanges {
		encoder.Message(2, change)
	}
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbTransactionTrace) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		m.TransactionID, err = field.Bytes()
	case 2:
		change := &DbStateChange{}
		err = field.Message(change)
		m.StateChanges = append(m.StateChanges, change)
	}
	return err
}

// DomainStatePathToDbStatePath converts StatePath to DbStatePath
func DomainStatePathToDbStatePath(path *externalapi.StatePath) *DbStatePath {
	return &DbStatePath{ContractAddress: path.ContractAddress, Key: path.Key}
}

// DbStatePathToDomainStatePath converts DbStatePath to StatePath
func DbStatePathToDomainStatePath(dbPath *DbStatePath) *externalapi.StatePath {
	return &externalapi.StatePath{ContractAddress: dbPath.ContractAddress, Key: dbPath.Key}
}

// TransactionTraceToDbTransactionTrace converts TransactionTrace to DbTransactionTrace
func TransactionTraceToDbTransactionTrace(trace *externalapi.TransactionTrace) *DbTransactionTrace {
	dbChanges := make([]*DbStateChange, len(trace.StateChanges))
	for i, change := range trace.StateChanges {
		dbChanges[i] = &DbStateChange{
			Path:          DomainStatePathToDbStatePath(change.Path),
			OriginalValue: change.OriginalValue,
			NewValue:      change.NewValue,
		}
	}
	return &DbTransactionTrace{
		TransactionID: DomainHashToDbBytes(trace.TransactionID),
		StateChanges:  dbChanges,
	}
}

// DbTransactionTraceToTransactionTrace converts DbTransactionTrace to TransactionTrace
func DbTransactionTraceToTransactionTrace(dbTrace *DbTransactionTrace) (*externalapi.TransactionTrace, error) {
	transactionID, err := externalapi.NewDomainHashFromByteSlice(dbTrace.TransactionID)
	if err != nil {
		return nil, err
	}
	changes := make([]*externalapi.StateChange, len(dbTrace.StateChanges))
	for i, dbChange := range dbTrace.StateChanges {
		if dbChange.Path == nil {
			dbChange.Path = &DbStatePath{}
		}
		changes[i] = &externalapi.StateChange{
			Path:          DbStatePathToDomainStatePath(dbChange.Path),
			OriginalValue: dbChange.OriginalValue,
			NewValue:      dbChange.NewValue,
		}
	}
	return &externalapi.TransactionTrace{
		TransactionID: transactionID,
		StateChanges:  changes,
	}, nil
}
