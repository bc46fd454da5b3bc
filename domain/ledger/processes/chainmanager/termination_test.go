package chainmanager

import (
	"testing"
	"time"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/stretchr/testify/require"
)

func TestRequestTerminationWithoutRollback(t *testing.T) {
	events := make(chan externalapi.ChainEvent, 100)
	tc := prepareForTest(t, events)
	tc.buildChain(5)
	drainEvents(events)

	tc.chainManager.RequestTermination()
	require.True(t, tc.chainManager.IsTerminated())
	require.Equal(t, []externalapi.ChainEvent{
		&externalapi.TerminatedModule{Module: externalapi.ModuleBlockRollback},
	}, drainEvents(events))

	transactions, err := tc.chainManager.RollbackToHeight(2)
	require.NoError(t, err)
	require.Empty(t, transactions)
	tc.requireHeight(5)

	// A second request is ignored
	tc.chainManager.RequestTermination()
	require.Empty(t, drainEvents(events))
}

func TestRequestTerminationDuringRollback(t *testing.T) {
	verifyNoGoroutineLeaks(t)

	// Events are unbuffered so the rollback blocks on each publish until it
	// is received
	events := make(chan externalapi.ChainEvent)
	tc := prepareForTest(t, nil)
	tc.buildChain(5)
	tc.chainManager.events = events

	rollbackDone := make(chan error)
	go func() {
		_, err := tc.chainManager.RollbackToHeight(2)
		rollbackDone <- err
	}()
	require.Equal(t, &externalapi.RollbackStarted{TargetHeight: 2}, <-events)

	terminationDone := make(chan struct{})
	go func() {
		tc.chainManager.RequestTermination()
		close(terminationDone)
	}()
	require.Eventually(t, func() bool {
		tc.chainManager.guard.Lock()
		defer tc.chainManager.guard.Unlock()
		return tc.chainManager.guard.terminationRequested
	}, time.Second, time.Millisecond)

	var published []externalapi.ChainEvent
	for {
		event := <-events
		published = append(published, event)
		if _, ok := event.(*externalapi.TerminatedModule); ok {
			break
		}
	}
	require.NoError(t, <-rollbackDone)
	<-terminationDone

	require.Len(t, published, 4)
	require.Contains(t, published, &externalapi.TerminationRequested{})
	require.Contains(t, published, &externalapi.RollbackFinished{TargetHeight: 2, Height: 2})
	require.Equal(t, &externalapi.TerminatedModule{Module: externalapi.ModuleBlockRollback}, published[3])
	require.True(t, tc.chainManager.IsTerminated())
	tc.requireHeight(2)
}
