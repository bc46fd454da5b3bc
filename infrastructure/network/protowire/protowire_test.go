package protowire

import (
	"testing"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/ledgerhashing"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestResponseIndexedInfoThroughCodec(t *testing.T) {
	header := &externalapi.DomainBlockHeader{
		PreviousBlockHash:            externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{1}),
		MerkleTreeRootOfTransactions: externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{2}),
		MerkleTreeRootOfWorldState:   externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{3}),
		Height:                       12,
		TimeInMilliseconds:           12000,
		ChainID:                      &externalapi.DomainChainID{0xaa, 0xbb, 0xcc, 0xdd},
		ProducerPublicKey:            []byte("producer"),
	}

	codec := encoding.GetCodec(CodecName)
	require.NotNil(t, codec, "codec %s is not registered", CodecName)

	data, err := codec.Marshal(NewResponseIndexedInfo(12, header))
	require.NoError(t, err)
	response := &ResponseIndexedInfo{}
	require.NoError(t, codec.Unmarshal(data, response))

	info, err := response.ToDomain()
	require.NoError(t, err)
	require.Equal(t, uint64(12), info.Height)
	require.True(t, ledgerhashing.HeaderHash(header).Equal(info.BlockHeaderHash))
	require.True(t, header.MerkleTreeRootOfTransactions.Equal(info.TransactionMerkleRoot))
	require.True(t, header.ChainID.Equal(info.ChainID))
}

func TestUnsuccessfulResponse(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	data, err := codec.Marshal(NewResponseIndexedInfo(7, nil))
	require.NoError(t, err)

	response := &ResponseIndexedInfo{}
	require.NoError(t, codec.Unmarshal(data, response))
	require.Equal(t, &ResponseIndexedInfo{Height: 7}, response)

	_, err = response.ToDomain()
	require.Error(t, err)
}

func TestCodecRejectsForeignTypes(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	_, err := codec.Marshal("not a message")
	require.Error(t, err)
	require.Error(t, codec.Unmarshal([]byte{}, new(int)))
	require.Error(t, codec.Unmarshal([]byte{0xff}, &RequestIndexedInfo{}))
}
