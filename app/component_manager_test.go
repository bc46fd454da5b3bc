package app

import (
	"testing"
	"time"

	"github.com/kaspanet/ledgerd/domain/ledger"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/infrastructure/config"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	return &config.Config{
		Flags: &config.Flags{
			DisableCrossChain:   true,
			LevelDBCacheSizeMiB: 8,
			EventsBufferSize:    10,
			ShutdownTimeout:     10 * time.Second,
		},
		DataDir:       t.TempDir(),
		ActiveChainID: &externalapi.DomainChainID{0x01, 0x02, 0x03, 0x04},
	}
}

func TestComponentManagerStartStop(t *testing.T) {
	cfg := newTestConfig(t)
	db, err := openDB(cfg)
	require.NoError(t, err)
	defer db.Close()

	componentManager, err := NewComponentManager(cfg, db)
	require.NoError(t, err)
	componentManager.Start()

	chainState, err := componentManager.Ledger().ChainState()
	require.NoError(t, err)
	require.Zero(t, chainState.CurrentHeight)

	start := time.Now()
	componentManager.Stop()
	require.Less(t, time.Since(start), cfg.ShutdownTimeout)
	require.True(t, componentManager.Ledger().IsTerminated())

	// A second stop is a no-op
	componentManager.Stop()
}

func TestComponentManagerReopensDatabase(t *testing.T) {
	cfg := newTestConfig(t)
	db, err := openDB(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = openDB(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestHandleChainEvents(t *testing.T) {
	componentManager := &ComponentManager{
		events:     make(chan externalapi.ChainEvent),
		stopEvents: make(chan struct{}),
		eventsDone: make(chan struct{}),
		terminated: make(chan struct{}),
	}
	go componentManager.handleChainEvents()

	componentManager.events <- &externalapi.RollbackStarted{TargetHeight: 3}
	componentManager.events <- &externalapi.BranchRolledBack{Blocks: []*externalapi.DomainBlock{{}, {}}}
	componentManager.events <- &externalapi.RollbackFinished{TargetHeight: 3, Height: 3}
	componentManager.events <- &externalapi.TerminationRequested{}

	select {
	case <-componentManager.terminated:
		t.Fatalf("terminated before a TerminatedModule event")
	default:
	}

	componentManager.events <- &externalapi.TerminatedModule{Module: externalapi.ModuleBlockRollback}
	componentManager.events <- &externalapi.TerminatedModule{Module: externalapi.ModuleBlockRollback}

	select {
	case <-componentManager.terminated:
	case <-time.After(5 * time.Second):
		t.Fatalf("TerminatedModule did not close the terminated channel")
	}

	close(componentManager.stopEvents)
	<-componentManager.eventsDone
}

// slowTerminationLedger finishes its in flight rollback some time after
// termination is requested
type slowTerminationLedger struct {
	ledger.Ledger
	events chan<- externalapi.ChainEvent
	delay  time.Duration
}

func (l *slowTerminationLedger) RequestTermination() {
	go func() {
		time.Sleep(l.delay)
		l.events <- &externalapi.TerminatedModule{Module: externalapi.ModuleBlockRollback}
	}()
}

func TestStopWaitsForRollbackPastShutdownTimeout(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.ShutdownTimeout = 10 * time.Millisecond

	events := make(chan externalapi.ChainEvent)
	componentManager := &ComponentManager{
		cfg:        cfg,
		ledger:     &slowTerminationLedger{events: events, delay: 200 * time.Millisecond},
		events:     events,
		stopEvents: make(chan struct{}),
		eventsDone: make(chan struct{}),
		terminated: make(chan struct{}),
	}
	go componentManager.handleChainEvents()

	start := time.Now()
	componentManager.Stop()
	require.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)

	select {
	case <-componentManager.terminated:
	default:
		t.Fatalf("Stop returned before the rollback module terminated")
	}
}
