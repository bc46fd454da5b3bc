package grpcserver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/kaspanet/ledgerd/util/panics"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
)

// MaxMessageSize is the max message size for the gRPC server to send and receive
const MaxMessageSize = 16 * 1024 * 1024 // 16 MB

// GRPCServer serves the registered gRPC services on a set of addresses
type GRPCServer struct {
	listeningAddresses []string
	server             *grpc.Server
	name               string
}

// New creates a gRPC server. Services must be registered through
// ServiceRegistrar before Start is called.
func New(listeningAddresses []string, maxMessageSize int, name string, options ...grpc.ServerOption) *GRPCServer {
	log.Debugf("Created new %s GRPC server with maxMessageSize %d", name, maxMessageSize)
	options = append([]grpc.ServerOption{
		grpc.MaxRecvMsgSize(maxMessageSize),
		grpc.MaxSendMsgSize(maxMessageSize),
	}, options...)
	return &GRPCServer{
		server:             grpc.NewServer(options...),
		listeningAddresses: listeningAddresses,
		name:               name,
	}
}

// ServiceRegistrar returns the registrar services are registered on
func (s *GRPCServer) ServiceRegistrar() grpc.ServiceRegistrar {
	return s.server
}

// Server returns the underlying grpc.Server
func (s *GRPCServer) Server() *grpc.Server {
	return s.server
}

// Start listens on every listening address
func (s *GRPCServer) Start() error {
	if len(s.listeningAddresses) == 0 {
		return errors.Errorf("%s has no listening addresses", s.name)
	}

	for _, listenAddress := range s.listeningAddresses {
		err := s.listenOn(listenAddress)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *GRPCServer) listenOn(listenAddr string) error {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return errors.Wrapf(err, "%s error listening on %s", s.name, listenAddr)
	}

	s.Serve(listener)
	log.Infof("%s Server listening on %s", s.name, listenAddr)
	return nil
}

// Serve serves on the given listener in a new goroutine
func (s *GRPCServer) Serve(listener net.Listener) {
	spawn(fmt.Sprintf("%s.GRPCServer.Serve", s.name), func() {
		err := s.server.Serve(listener)
		if err != nil {
			panics.Exit(log, fmt.Sprintf("error serving %s on %s: %+v", s.name, listener.Addr(), err))
		}
	})
}

// Stop stops the server gracefully, or forcibly once a timeout elapses
func (s *GRPCServer) Stop() error {
	const stopTimeout = 2 * time.Second

	stopChan := make(chan interface{})
	spawn(fmt.Sprintf("%s.GRPCServer.Stop", s.name), func() {
		s.server.GracefulStop()
		close(stopChan)
	})

	select {
	case <-stopChan:
	case <-time.After(stopTimeout):
		log.Warnf("Could not gracefully stop %s: timed out after %s", s.name, stopTimeout)
		s.server.Stop()
	}
	return nil
}

// PeerAddress returns the address of the peer of the call in ctx
func PeerAddress(ctx context.Context) string {
	peerInfo, ok := peer.FromContext(ctx)
	if !ok || peerInfo.Addr == nil {
		return "unknown"
	}
	return peerInfo.Addr.String()
}
