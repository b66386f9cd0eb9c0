package app

import "sync"

// Gate admits one operation at a time. A second caller is rejected, not queued.
type Gate struct {
	mu   sync.Mutex
	busy bool
}

// TryAcquire marks the gate busy. It returns ErrBusy when an operation is already outstanding.
func (g *Gate) TryAcquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return ErrBusy
	}
	g.busy = true
	return nil
}

// Release marks the gate idle.
func (g *Gate) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// Busy reports whether an operation is outstanding.
func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}
