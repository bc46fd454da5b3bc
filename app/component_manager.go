package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kaspanet/ledgerd/app/crosschain"
	"github.com/kaspanet/ledgerd/domain/ledger"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/infrastructure/config"
	infrastructuredatabase "github.com/kaspanet/ledgerd/infrastructure/db/database"
	"github.com/kaspanet/ledgerd/infrastructure/metrics"
	"github.com/kaspanet/ledgerd/infrastructure/network/grpcserver"
	"github.com/kaspanet/ledgerd/infrastructure/network/protowire"
	"github.com/kaspanet/ledgerd/util/panics"
)

// ComponentManager is a wrapper for all the ledgerd services
type ComponentManager struct {
	cfg    *config.Config
	ledger ledger.Ledger

	events         chan externalapi.ChainEvent
	stopEvents     chan struct{}
	eventsDone     chan struct{}
	terminated     chan struct{}
	terminatedOnce sync.Once

	crossChainServer *grpcserver.GRPCServer
	metricsServer    *metrics.Server

	requester       *crosschain.Requester
	requesterCancel context.CancelFunc
	requesterDone   chan struct{}

	started, shutdown int32
}

// NewComponentManager returns a new ComponentManager instance.
// Use Start() to begin all services within this ComponentManager
func NewComponentManager(cfg *config.Config, db infrastructuredatabase.Database) (*ComponentManager, error) {
	events := make(chan externalapi.ChainEvent, cfg.EventsBufferSize)
	ledgerConfig := &ledger.Config{
		ChainID:              cfg.ActiveChainID,
		BlockCacheSize:       cfg.BlockCacheSize,
		TransactionCacheSize: cfg.TransactionCacheSize,
		StateCacheSize:       cfg.StateCacheSize,
	}
	l, err := ledger.NewFactory().NewLedger(ledgerConfig, db, events)
	if err != nil {
		return nil, err
	}

	componentManager := &ComponentManager{
		cfg:        cfg,
		ledger:     l,
		events:     events,
		stopEvents: make(chan struct{}),
		eventsDone: make(chan struct{}),
		terminated: make(chan struct{}),
	}

	if !cfg.DisableCrossChain {
		componentManager.crossChainServer = grpcserver.New(cfg.CrossChainListeners, grpcserver.MaxMessageSize,
			"CrossChain", metrics.GRPCServerOptions()...)
		protowire.RegisterHeaderInfoServer(componentManager.crossChainServer.ServiceRegistrar(),
			crosschain.NewIndexStreamer(l))
		metrics.RegisterGRPCServer(componentManager.crossChainServer.Server())
	}

	if cfg.MetricsListener != "" {
		componentManager.metricsServer = metrics.NewServer(cfg.MetricsListener)
	}

	if cfg.ParentChainAddress != "" {
		componentManager.requester, err = componentManager.newRequester()
		if err != nil {
			return nil, err
		}
	}

	return componentManager, nil
}

// newRequester creates a requester that resumes right after the last parent
// chain height this chain recorded
func (a *ComponentManager) newRequester() (*crosschain.Requester, error) {
	parentChainID := a.cfg.ParentChain
	startHeight := a.cfg.ParentChainStartHeight
	parentChainState, found, err := a.ledger.SideChainState(parentChainID)
	if err != nil {
		return nil, err
	}
	if found && parentChainState.CurrentHeight > 0 {
		startHeight = parentChainState.CurrentHeight + 1
	}

	requesterConfig := crosschain.RequesterConfig{
		Address:       a.cfg.ParentChainAddress,
		ParentChainID: parentChainID,
		StartHeight:   startHeight,
	}
	return crosschain.NewRequester(requesterConfig, func(info *externalapi.IndexedInfo) error {
		err := a.ledger.SetSideChainHeight(parentChainID, info.Height)
		if err != nil {
			return err
		}
		metrics.SetIndexedParentHeight(parentChainID.String(), info.Height)
		log.Debugf("Indexed block %s of parent chain %s at height %d",
			info.BlockHeaderHash, parentChainID, info.Height)
		return nil
	}), nil
}

// Start launches all the ledgerd services.
func (a *ComponentManager) Start() {
	// Already started?
	if atomic.AddInt32(&a.started, 1) != 1 {
		return
	}

	log.Trace("Starting ledgerd")

	spawn("ComponentManager.handleChainEvents", a.handleChainEvents)

	chainState, err := a.ledger.ChainState()
	if err != nil {
		panics.Exit(log, fmt.Sprintf("Error reading the chain state: %+v", err))
	}
	metrics.SetCanonicalHeight(chainState.CurrentHeight)
	log.Infof("Chain %s is at height %d", a.ledger.ChainID(), chainState.CurrentHeight)

	sideChainStates, err := a.ledger.SideChainStates()
	if err != nil {
		panics.Exit(log, fmt.Sprintf("Error reading the side chain states: %+v", err))
	}
	for chainID, sideChainState := range sideChainStates {
		log.Infof("Side chain %s is indexed up to height %d", chainID, sideChainState.CurrentHeight)
	}

	if a.crossChainServer != nil {
		err := a.crossChainServer.Start()
		if err != nil {
			panics.Exit(log, fmt.Sprintf("Error starting the cross chain server: %+v", err))
		}
	}

	if a.metricsServer != nil {
		a.metricsServer.Start()
	}

	if a.requester != nil {
		var ctx context.Context
		ctx, a.requesterCancel = context.WithCancel(context.Background())
		a.requesterDone = make(chan struct{})
		spawn("ComponentManager.runRequester", func() {
			defer close(a.requesterDone)
			err := a.requester.Run(ctx)
			if err != nil {
				log.Errorf("Indexing the parent chain stopped: %+v", err)
			}
		})
	}
}

// Stop gracefully shuts down all the ledgerd services. It does not return
// before an in flight rollback finishes. Past the shutdown timeout it only
// warns that it is still waiting.
func (a *ComponentManager) Stop() {
	// Make sure this only happens once.
	if atomic.AddInt32(&a.shutdown, 1) != 1 {
		log.Infof("Ledgerd is already in the process of shutting down")
		return
	}

	log.Warnf("Ledgerd shutting down")

	if a.requester != nil {
		a.requesterCancel()
		<-a.requesterDone
	}

	if a.crossChainServer != nil {
		err := a.crossChainServer.Stop()
		if err != nil {
			log.Errorf("Error stopping the cross chain server: %+v", err)
		}
	}

	// The database is closed once Stop returns, so a rollback that is still
	// committing must finish first
	a.ledger.RequestTermination()
	select {
	case <-a.terminated:
	case <-time.After(a.cfg.ShutdownTimeout):
		log.Warnf("The block rollback module did not terminate within %s. "+
			"Waiting for the rollback in progress to finish", a.cfg.ShutdownTimeout)
		<-a.terminated
	}

	if a.metricsServer != nil {
		err := a.metricsServer.Stop()
		if err != nil {
			log.Errorf("Error stopping the metrics server: %+v", err)
		}
	}

	close(a.stopEvents)
	<-a.eventsDone
}

// Ledger returns the ledger the components run on
func (a *ComponentManager) Ledger() ledger.Ledger {
	return a.ledger
}
