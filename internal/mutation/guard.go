package mutation

import (
	"sync"

	"github.com/workflow-admin/workflow-admin/internal/failure"
)

// guard refuses a second mutation of the same record from the same session
// while the first one is in flight. Different sessions are not serialized.
type guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func newGuard() *guard {
	return &guard{inFlight: make(map[string]struct{})}
}

// acquire returns a release func, or failure.ErrBusy.
func (g *guard) acquire(sessionID, kind, id string) (func(), error) {
	key := sessionID + "/" + kind + "/" + id

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return nil, failure.ErrBusy
	}

	g.inFlight[key] = struct{}{}

	return func() {
		g.mu.Lock()
		delete(g.inFlight, key)
		g.mu.Unlock()
	}, nil
}
