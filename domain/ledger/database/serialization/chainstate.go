package serialization

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

// DbChainState is the stored form of a ChainState
type DbChainState struct {
	CurrentBlockHash []byte
	CurrentHeight    uint64
}

// MarshalProto implements protoserialization.Message
func (m *DbChainState) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Bytes(1, m.CurrentBlockHash)
	encoder.Uint64(2, m.CurrentHeight)
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbChainState) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		m.CurrentBlockHash, err = field.Bytes()
	case 2:
		m.CurrentHeight, err = field.Uint64()
	}
	return err
}

// ChainStateToDbChainState converts ChainState to DbChainState
func ChainStateToDbChainState(chainState *externalapi.ChainState) *DbChainState {
	return &DbChainState{
		CurrentBlockHash: DomainHashToDbBytes(chainState.CurrentBlockHash),
		CurrentHeight:    chainState.CurrentHeight,
	}
}

// DbChainStateToChainState converts DbChainState to ChainState
func DbChainStateToChainState(dbChainState *DbChainState) (*externalapi.ChainState, error) {
	currentBlockHash, err := DbBytesToDomainHash(dbChainState.CurrentBlockHash)
	if err != nil {
		return nil, err
	}
	return &externalapi.ChainState{
		CurrentBlockHash: currentBlockHash,
		CurrentHeight:    dbChainState.CurrentHeight,
	}, nil
}
