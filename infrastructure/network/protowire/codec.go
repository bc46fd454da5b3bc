package protowire

import (
	"github.com/kaspanet/ledgerd/util/protoserialization"
	"github.com/pkg/errors"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype of messages in this package
const CodecName = "ledgerd-proto"

func init() {
	encoding.RegisterCodec(codec{})
}

// codec is a gRPC codec for protoserialization messages
type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	message, ok := v.(protoserialization.Message)
	if !ok {
		return nil, errors.Errorf("cannot marshal %T: it is not a protoserialization.Message", v)
	}
	return protoserialization.Marshal(message), nil
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	message, ok := v.(protoserialization.Message)
	if !ok {
		return errors.Errorf("cannot unmarshal into %T: it is not a protoserialization.Message", v)
	}
	return protoserialization.Unmarshal(data, message)
}

func (codec) Name() string {
	return CodecName
}
