package protowire

import (
	"context"

	"google.golang.org/grpc"
)

// HeaderInfoServer is the server API for the HeaderInfo service
type HeaderInfoServer interface {
	IndexStream(HeaderInfo_IndexStreamServer) error
}

// HeaderInfo_IndexStreamServer is the server side of an IndexStream
type HeaderInfo_IndexStreamServer interface {
	Send(*ResponseIndexedInfo) error
	Recv() (*RequestIndexedInfo, error)
	grpc.ServerStream
}

type headerInfoIndexStreamServer struct {
	grpc.ServerStream
}

func (x *headerInfoIndexStreamServer) Send(m *ResponseIndexedInfo) error {
	return x.ServerStream.SendMsg(m)
}

func (x *headerInfoIndexStreamServer) Recv() (*RequestIndexedInfo, error) {
	m := new(RequestIndexedInfo)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func headerInfoIndexStreamHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(HeaderInfoServer).IndexStream(&headerInfoIndexStreamServer{stream})
}

// HeaderInfoServiceDesc describes the HeaderInfo service
var HeaderInfoServiceDesc = grpc.ServiceDesc{
	ServiceName: "protowire.HeaderInfo",
	HandlerType: (*HeaderInfoServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "IndexStream",
			Handler:       headerInfoIndexStreamHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "headerinfo.proto",
}

// RegisterHeaderInfoServer registers srv on s
func RegisterHeaderInfoServer(s grpc.ServiceRegistrar, srv HeaderInfoServer) {
	s.RegisterService(&HeaderInfoServiceDesc, srv)
}

// HeaderInfoClient is the client API for the HeaderInfo service
type HeaderInfoClient interface {
	IndexStream(ctx context.Context, opts ...grpc.CallOption) (HeaderInfo_IndexStreamClient, error)
}

type headerInfoClient struct {
	cc grpc.ClientConnInterface
}

// NewHeaderInfoClient creates a HeaderInfoClient over cc
func NewHeaderInfoClient(cc grpc.ClientConnInterface) HeaderInfoClient {
	return &headerInfoClient{cc}
}

func (c *headerInfoClient) IndexStream(ctx context.Context,
	opts ...grpc.CallOption) (HeaderInfo_IndexStreamClient, error) {

	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &HeaderInfoServiceDesc.Streams[0], "/protowire.HeaderInfo/IndexStream", opts...)
	if err != nil {
		return nil, err
	}
	return &headerInfoIndexStreamClient{stream}, nil
}

// HeaderInfo_IndexStreamClient is the client side of an IndexStream
type HeaderInfo_IndexStreamClient interface {
	Send(*RequestIndexedInfo) error
	Recv() (*ResponseIndexedInfo, error)
	grpc.ClientStream
}

type headerInfoIndexStreamClient struct {
	grpc.ClientStream
}

func (x *headerInfoIndexStreamClient) Send(m *RequestIndexedInfo) error {
	return x.ClientStream.SendMsg(m)
}

func (x *headerInfoIndexStreamClient) Recv() (*ResponseIndexedInfo, error) {
	m := new(ResponseIndexedInfo)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
