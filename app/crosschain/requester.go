package crosschain

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/infrastructure/network/protowire"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
)

// ErrProtocol is returned when the parent chain answers out of order or
// with information of another chain
var ErrProtocol = errors.New("cross chain protocol violation")

// IndexedInfoHandler is called with every indexed info the requester
// receives, in height order. An error stops the requester.
type IndexedInfoHandler func(info *externalapi.IndexedInfo) error

// RequesterConfig configures a Requester
type RequesterConfig struct {
	// Address of the parent chain's cross chain server
	Address string

	// ParentChainID is the chain every indexed info must belong to
	ParentChainID *externalapi.DomainChainID

	// StartHeight is the first height requested
	StartHeight uint64

	// InitialPollInterval and MaxPollInterval bound the wait before asking
	// again for a height the parent chain does not have yet
	InitialPollInterval time.Duration
	MaxPollInterval     time.Duration

	DialOptions []grpc.DialOption
}

const (
	defaultInitialPollInterval = 500 * time.Millisecond
	defaultMaxPollInterval     = 30 * time.Second
)

// Requester follows the canonical chain of a parent chain over an index
// stream
type Requester struct {
	cfg        RequesterConfig
	handler    IndexedInfoHandler
	nextHeight uint64

	onReconnect func(wait time.Duration)
}

// NewRequester creates a Requester that hands every indexed info to handler
func NewRequester(cfg RequesterConfig, handler IndexedInfoHandler) *Requester {
	if cfg.InitialPollInterval <= 0 {
		cfg.InitialPollInterval = defaultInitialPollInterval
	}
	if cfg.MaxPollInterval <= 0 {
		cfg.MaxPollInterval = defaultMaxPollInterval
	}
	if cfg.StartHeight < externalapi.GenesisBlockHeight {
		cfg.StartHeight = externalapi.GenesisBlockHeight
	}
	return &Requester{
		cfg:        cfg,
		handler:    handler,
		nextHeight: cfg.StartHeight,
	}
}

// NextHeight returns the next height the requester asks for
func (r *Requester) NextHeight() uint64 {
	return r.nextHeight
}

func (r *Requester) newBackOff(ctx context.Context) backoff.BackOffContext {
	expBackOff := backoff.NewExponentialBackOff()
	expBackOff.InitialInterval = r.cfg.InitialPollInterval
	expBackOff.MaxInterval = r.cfg.MaxPollInterval
	expBackOff.MaxElapsedTime = 0
	expBackOff.Reset()
	return backoff.WithContext(expBackOff, ctx)
}

// Run requests the parent chain's indexed info until ctx is cancelled,
// redialing with a backoff whenever the stream breaks. The backoff starts
// over once a session delivers a height. Protocol and handler errors are
// returned right away.
func (r *Requester) Run(ctx context.Context) error {
	reconnectBackOff := r.newBackOff(ctx)
	operation := func() error {
		err := r.runSession(ctx, reconnectBackOff)
		if errors.Is(err, ErrProtocol) || errors.Is(err, errHandler) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warnf("Index stream with %s broke: %s. Reconnecting in %s", r.cfg.Address, err, wait)
		if r.onReconnect != nil {
			r.onReconnect(wait)
		}
	}

	err := backoff.RetryNotify(operation, reconnectBackOff, notify)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (r *Requester) runSession(ctx context.Context, reconnectBackOff backoff.BackOff) error {
	dialOptions := append([]grpc.DialOption{grpc.WithInsecure()}, r.cfg.DialOptions...)
	connection, err := grpc.DialContext(ctx, r.cfg.Address, dialOptions...)
	if err != nil {
		return errors.Wrapf(err, "error connecting to %s", r.cfg.Address)
	}
	defer connection.Close()

	log.Infof("Requesting indexed info from %s starting at height %d", r.cfg.Address, r.nextHeight)
	return r.follow(ctx, protowire.NewHeaderInfoClient(connection), reconnectBackOff)
}

var errHandler = errors.New("indexed info handler failed")

// follow asks for one height at a time, waiting with an exponential backoff
// whenever the height is not there yet
func (r *Requester) follow(ctx context.Context, client protowire.HeaderInfoClient,
	reconnectBackOff backoff.BackOff) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := client.IndexStream(ctx)
	if err != nil {
		return errors.Wrapf(err, "error opening an index stream to %s", r.cfg.Address)
	}
	defer func() {
		err := stream.CloseSend()
		if err != nil {
			log.Debugf("Error closing the index stream to %s: %s", r.cfg.Address, err)
		}
	}()

	pollBackOff := r.newBackOff(ctx)
	for {
		err := stream.Send(&protowire.RequestIndexedInfo{NextHeight: r.nextHeight})
		if err != nil {
			return errors.Wrapf(err, "error requesting height %d", r.nextHeight)
		}
		response, err := stream.Recv()
		if err != nil {
			return errors.Wrapf(err, "error receiving height %d", r.nextHeight)
		}
		if response.Height != r.nextHeight {
			return errors.Wrapf(ErrProtocol, "requested height %d but got height %d", r.nextHeight, response.Height)
		}

		if !response.Success {
			wait := pollBackOff.NextBackOff()
			if wait == backoff.Stop {
				return ctx.Err()
			}
			log.Debugf("Height %d is not available on %s yet. Asking again in %s", r.nextHeight, r.cfg.Address, wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		pollBackOff.Reset()

		info, err := response.ToDomain()
		if err != nil {
			return errors.Wrapf(ErrProtocol, "malformed response: %s", err)
		}
		if r.cfg.ParentChainID != nil && !info.ChainID.Equal(r.cfg.ParentChainID) {
			return errors.Wrapf(ErrProtocol, "height %d belongs to chain %s instead of %s",
				info.Height, info.ChainID, r.cfg.ParentChainID)
		}

		err = r.handler(info)
		if err != nil {
			return errors.Wrapf(errHandler, "height %d: %+v", info.Height, err)
		}
		r.nextHeight++
		reconnectBackOff.Reset()
	}
}
