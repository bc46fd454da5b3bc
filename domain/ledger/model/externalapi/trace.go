package externalapi

import (
	"encoding/binary"
	"encoding/hex"
)

// StatePath addresses a single value in the world state
type StatePath struct {
	ContractAddress []byte
	Key             []byte
}

// Encode returns the deterministic encoding of the path:
// varint(len(ContractAddress)) || ContractAddress || Key
func (path *StatePath) Encode() []byte {
	encoded := make([]byte, binary.MaxVarintLen64+len(path.ContractAddress)+len(path.Key))
	n := binary.PutUvarint(encoded, uint64(len(path.ContractAddress)))
	n += copy(encoded[n:], path.ContractAddress)
	n += copy(encoded[n:], path.Key)
	return encoded[:n]
}

// MapKey returns the path as a string that may be used as a map key
func (path *StatePath) MapKey() string {
	return hex.EncodeToString(path.Encode())
}

// Clone returns a clone of StatePath
func (path *StatePath) Clone() *StatePath {
	return &StatePath{
		ContractAddress: cloneBytes(path.ContractAddress),
		Key:             cloneBytes(path.Key),
	}
}

// StateChange is a single state mutation produced by a transaction.
// An empty OriginalValue means the path did not exist before the change.
type StateChange struct {
	Path          *StatePath
	OriginalValue []byte
	NewValue      []byte
}

// TransactionTrace records the state changes a transaction produced
type TransactionTrace struct {
	TransactionID *DomainHash
	StateChanges  []*StateChange
}

// Clone returns a clone of TransactionTrace
func (trace *TransactionTrace) Clone() *TransactionTrace {
	changes := make([]*StateChange, len(trace.StateChanges))
	for i, change := range trace.StateChanges {
		changes[i] = &StateChange{
			Path:          change.Path.Clone(),
			OriginalValue: cloneBytes(change.OriginalValue),
			NewValue:      cloneBytes(change.NewValue),
		}
	}
	return &TransactionTrace{
		TransactionID: trace.TransactionID,
		StateChanges:  changes,
	}
}

// StateWrite sets the value of a path. An empty Value deletes the path.
type StateWrite struct {
	Path  *StatePath
	Value []byte
}
