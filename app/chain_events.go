package app

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/infrastructure/metrics"
)

// handleChainEvents consumes the events of the ledger until Stop
func (a *ComponentManager) handleChainEvents() {
	defer close(a.eventsDone)

	for {
		select {
		case event := <-a.events:
			a.handleChainEvent(event)
		case <-a.stopEvents:
			return
		}
	}
}

func (a *ComponentManager) handleChainEvent(event externalapi.ChainEvent) {
	switch event := event.(type) {
	case *externalapi.RollbackStarted:
		log.Infof("Rollback to height %d started", event.TargetHeight)

	case *externalapi.BranchRolledBack:
		metrics.BlocksRolledBack(len(event.Blocks))
		log.Infof("Rolled back %d blocks", len(event.Blocks))

	case *externalapi.RollbackFinished:
		metrics.RollbackFinished(event.Height, event.Err != nil)
		if event.Err != nil {
			log.Errorf("Rollback to height %d failed at height %d: %s", event.TargetHeight, event.Height, event.Err)
			return
		}
		log.Infof("Rollback to height %d finished, the canonical tip is at height %d",
			event.TargetHeight, event.Height)

	case *externalapi.TerminationRequested:
		log.Infof("Termination requested, waiting for the rollback in progress")

	case *externalapi.TerminatedModule:
		log.Infof("Module %s terminated", event.Module)
		if event.Module == externalapi.ModuleBlockRollback {
			a.terminatedOnce.Do(func() { close(a.terminated) })
		}

	default:
		log.Warnf("Unknown chain event %T", event)
	}
}
