package ingest

import "sync/atomic"

const (
	idle int32 = iota
	processing
)

// Guard is a two state Idle -> Processing -> Idle admission latch.
type Guard struct {
	state atomic.Int32
}

// TryEnter moves Idle to Processing, reporting false if already busy.
func (g *Guard) TryEnter() bool {
	return g.state.CompareAndSwap(idle, processing)
}

// Leave moves Processing back to Idle. It reports false when the guard
// was not held, which means a caller released twice.
func (g *Guard) Leave() bool {
	return g.state.CompareAndSwap(processing, idle)
}

func (g *Guard) Busy() bool {
	return g.state.Load() == processing
}
