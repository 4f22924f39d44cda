// ABOUTME: Callback gate shared by all backends
// ABOUTME: Lets Stop wait for the real-time callback without locking it
package output

import (
	"runtime"
	"sync/atomic"
	"time"
)

// gate sits between a backend thread and the registered FillFunc.
// The real-time side only touches atomics. Stop flips running off and then
// waits until no invocation that could have seen running=true is left.
type gate struct {
	fill     atomic.Pointer[FillFunc]
	running  atomic.Bool
	inflight atomic.Int32
	calls    atomic.Uint64
}

func (g *gate) register(fn FillFunc) {
	if fn == nil {
		g.fill.Store(nil)
		return
	}
	g.fill.Store(&fn)
}

// run is called from the backend thread
func (g *gate) run(out []byte) {
	g.inflight.Add(1)
	defer g.inflight.Add(-1)

	if !g.running.Load() {
		clear(out)
		return
	}
	fn := g.fill.Load()
	if fn == nil {
		clear(out)
		return
	}
	g.calls.Add(1)
	(*fn)(out)
}

func (g *gate) open() {
	g.running.Store(true)
}

// close returns once no fill invocation is in progress
func (g *gate) close() {
	g.running.Store(false)
	for spins := 0; g.inflight.Load() != 0; spins++ {
		if spins < 64 {
			runtime.Gosched()
			continue
		}
		time.Sleep(50 * time.Microsecond)
	}
}

func (g *gate) isRunning() bool {
	return g.running.Load()
}
