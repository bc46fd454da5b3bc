package crosschain

import (
	"io"

	"github.com/kaspanet/ledgerd/domain/ledger/model"
	"github.com/kaspanet/ledgerd/infrastructure/metrics"
	"github.com/kaspanet/ledgerd/infrastructure/network/grpcserver"
	"github.com/kaspanet/ledgerd/infrastructure/network/protowire"
	"github.com/kaspanet/ledgerd/util/panics"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IndexStreamer serves the header information side chains index. Each
// request is answered from the canonical chain as it is committed when the
// request is read.
type IndexStreamer struct {
	headerReader model.HeaderReader
}

// NewIndexStreamer creates an IndexStreamer reading from headerReader
func NewIndexStreamer(headerReader model.HeaderReader) *IndexStreamer {
	return &IndexStreamer{headerReader: headerReader}
}

// IndexStream answers every request of the stream in order until the side
// chain closes its sending side
func (s *IndexStreamer) IndexStream(stream protowire.HeaderInfo_IndexStreamServer) error {
	defer panics.HandlePanic(log, "IndexStreamer.IndexStream", nil)

	peerAddress := grpcserver.PeerAddress(stream.Context())
	log.Infof("Index stream opened by %s", peerAddress)
	onClose := metrics.IndexStreamOpened()
	defer onClose()

	for {
		request, err := stream.Recv()
		if err == io.EOF {
			log.Infof("Index stream of %s closed", peerAddress)
			return nil
		}
		if err != nil {
			log.Warnf("Error receiving from the index stream of %s: %s", peerAddress, err)
			return err
		}

		header, found, err := s.headerReader.GetHeaderByHeight(request.NextHeight)
		if err != nil {
			log.Errorf("Error looking up the header at height %d for %s: %+v", request.NextHeight, peerAddress, err)
			return status.Errorf(codes.Internal, "failed to look up the header at height %d", request.NextHeight)
		}
		if !found {
			header = nil
		}
		metrics.IndexStreamRequestServed(found)

		err = stream.Send(protowire.NewResponseIndexedInfo(request.NextHeight, header))
		if err != nil {
			log.Warnf("Error sending to the index stream of %s: %s", peerAddress, err)
			return err
		}
		log.Debugf("Sent the indexed info of height %d to %s (found: %t)", request.NextHeight, peerAddress, found)
	}
}
