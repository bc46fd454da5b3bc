package serialization

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/protoserialization"
)

// DbSideChainIndexedInfo is the stored form of a SideChainIndexedInfo
type DbSideChainIndexedInfo struct {
	ChainID []byte
	Height  uint64
}

// MarshalProto implements protoserialization.Message
func (m *DbSideChainIndexedInfo) MarshalProto(encoder *protoserialization.Encoder) {
	encoder.Bytes(1, m.ChainID)
	encoder.Uint64(2, m.Height)
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbSideChainIndexedInfo) UnmarshalProtoField(field *protoserialization.Field) error {
	var err error
	switch field.Number {
	case 1:
		m.ChainID, err = field.Bytes()
	case 2:
		m.Height, err = field.Uint64()
	}
	return err
}

// DbBlockBody is the stored form of a DomainBlockBody
type DbBlockBody struct {
	TransactionHashes    []*DbHash
	IndexedSideChainInfo []*DbSideChainIndexedInfo
}

// MarshalProto implements protoserialization.Message
func (m *DbBlockBody) MarshalProto(encoder *protoserialization.Encoder) {
	for _, hash := range m.TransactionHashes {
		encoder.Message(1, hash)
	}
	for _, info := range m.IndexedSideChainInfo {
		encoder.Message(2, info)
	}
}

// UnmarshalProtoField implements protoserialization.Message
func (m *DbBlockBody) UnmarshalProtoField(field *protoserialization.Field) error {
	switch field.Number {
	case 1:
		hash := &DbHash{}
		err := field.Message(hash)
		if err != nil {
			return err
		}
		m.TransactionHashes = append(m.TransactionHashes, hash)
	case 2:
		info := &DbSideChainIndexedInfo{}
		err := field.Message(info)
		if err != nil {
			return err
		}
		m.IndexedSideChainInfo = append(m.IndexedSideChainInfo, info)
	}
	return nil
}

// DomainBlockBodyToDbBlockBody converts DomainBlockBody to DbBlockBody
func DomainBlockBodyToDbBlockBody(body *externalapi.DomainBlockBody) *DbBlockBody {
	dbTransactionHashes := make([]*DbHash, len(body.TransactionHashes))
	for i, hash := range body.TransactionHashes {
		dbTransactionHashes[i] = DomainHashToDbHash(hash)
	}
	dbSideChainInfo := make([]*DbSideChainIndexedInfo, len(body.IndexedSideChainInfo))
	for i, info := range body.IndexedSideChainInfo {
		dbSideChainInfo[i] = &DbSideChainIndexedInfo{
			ChainID: DomainChainIDToDbBytes(info.ChainID),
			Height:  info.Height,
		}
	}
	return &DbBlockBody{
		TransactionHashes:    dbTransactionHashes,
		IndexedSideChainInfo: dbSideChainInfo,
	}
}

// DbBlockBodyToDomainBlockBody converts DbBlockBody to DomainBlockBody
func DbBlockBodyToDomainBlockBody(dbBody *DbBlockBody) (*externalapi.DomainBlockBody, error) {
	transactionHashes := make([]*externalapi.DomainHash, len(dbBody.TransactionHashes))
	for i, dbHash := range dbBody.TransactionHashes {
		var err error
		transactionHashes[i], err = DbHashToDomainHash(dbHash)
		if err != nil {
			return nil, err
		}
	}
	sideChainInfo := make([]*externalapi.SideChainIndexedInfo, len(dbBody.IndexedSideChainInfo))
	for i, dbInfo := range dbBody.IndexedSideChainInfo {
		chainID, err := externalapi.NewDomainChainIDFromByteSlice(dbInfo.ChainID)
		if err != nil {
			return nil, err
		}
		sideChainInfo[i] = &externalapi.SideChainIndexedInfo{ChainID: chainID, Height: dbInfo.Height}
	}
	return &externalapi.DomainBlockBody{
		TransactionHashes:    transactionHashes,
		IndexedSideChainInfo: sideChainInfo,
	}, nil
}
