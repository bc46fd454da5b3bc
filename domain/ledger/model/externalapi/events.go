package externalapi

// ChainEvent is a notification published by the chain manager
type ChainEvent interface {
	isChainEvent()
}

// RollbackStarted is published when a rollback begins
type RollbackStarted struct {
	TargetHeight uint64
}

// BranchRolledBack is published once a rollback was committed. Blocks are
// in ascending height order.
type BranchRolledBack struct {
	Blocks []*DomainBlock
}

// RollbackFinished is published whenever a started rollback exits. Err is
// set if the rollback failed and nothing was committed.
type RollbackFinished struct {
	TargetHeight uint64
	Height       uint64
	Err          error
}

// TerminationRequested is published when termination was requested while a
// rollback was in flight
type TerminationRequested struct{}

// TerminatedModule is published once a module stopped accepting work
type TerminatedModule struct {
	Module string
}

// ModuleBlockRollback is the name of the rollback module in TerminatedModule events
const ModuleBlockRollback = "BlockRollback"

func (*RollbackStarted) isChainEvent()      {}
func (*BranchRolledBack) isChainEvent()     {}
func (*RollbackFinished) isChainEvent()     {}
func (*TerminationRequested) isChainEvent() {}
func (*TerminatedModule) isChainEvent()     {}
