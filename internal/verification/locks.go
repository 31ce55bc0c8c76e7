package verification

import "sync"

// inflightGuard tracks which milestones have a verification attempt in
// flight. It is a try-lock: a second attempt on the same milestone is
// rejected immediately instead of queueing, since the caller should not
// submit the same evidence twice concurrently.
type inflightGuard struct {
	mu     sync.Mutex
	active map[uint]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{active: make(map[uint]struct{})}
}

func (g *inflightGuard) tryAcquire(milestoneID uint) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[milestoneID]; busy {
		return false
	}
	g.active[milestoneID] = struct{}{}
	return true
}

func (g *inflightGuard) release(milestoneID uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, milestoneID)
}
