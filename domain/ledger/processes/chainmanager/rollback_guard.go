package chainmanager

import "sync"

// rollbackGuard serializes rollbacks and coordinates them with termination
type rollbackGuard struct {
	sync.Mutex
	inProgress           bool
	terminationRequested bool
	terminated           bool
}

// tryBegin marks a rollback as in progress. It returns false if a rollback
// is already in progress or the module was terminated.
func (g *rollbackGuard) tryBegin() bool {
	g.Lock()
	defer g.Unlock()

	if g.inProgress || g.terminated {
		return false
	}
	g.inProgress = true
	return true
}

// end clears the in progress mark. It returns true if a termination request
// was waiting for the rollback to finish, in which case the module is now
// terminated.
func (g *rollbackGuard) end() (terminatedNow bool) {
	g.Lock()
	defer g.Unlock()

	g.inProgress = false
	if g.terminationRequested && !g.terminated {
		g.terminated = true
		return true
	}
	return false
}

// requestTermination terminates the module right away if no rollback is in
// progress. Otherwise the request is latched until end is called.
func (g *rollbackGuard) requestTermination() (terminatedNow bool, deferred bool) {
	g.Lock()
	defer g.Unlock()

	if g.terminated || g.terminationRequested {
		return false, false
	}
	g.terminationRequested = true
	if g.inProgress {
		return false, true
	}
	g.terminated = true
	return true, false
}

func (g *rollbackGuard) isTerminated() bool {
	g.Lock()
	defer g.Unlock()

	return g.terminated
}
